/*
Package taskgate puts a gauntlet of dialogs between a user and their to-do list.

A submitted item only reaches the list after it passes every step of a flow:
confirmations, an arithmetic challenge, a robot check, a link that must be
clicked, terms that must be scrolled to the end, a fake loading sequence and a
timed review. A final length check turns short items away.

# Architecture

The library follows a hexagonal layout:

  - pkg/dialog is the dialog engine. A Surface (terminal, line, JSONL) shows
    frames and reports user actions; the engine turns them into results.
  - pkg/steps holds the step library. Each step presents dialogs and returns an
    Outcome: accepted, or rejected with an optional reason.
  - pkg/flow runs the steps in order, stops at the first rejection, commits the
    item to a ports.ItemList on success and reports rejections to a
    ports.Notifier.
  - pkg/schema and pkg/registry load flows from YAML files.

# Usage

	surface := text.NewSurface(lineio.NewReader(os.Stdin), os.Stdout)
	gate, err := taskgate.New(surface)
	if err != nil {
		log.Fatal(err)
	}

	res, err := gate.Submit(ctx, "Water the plants on the balcony")
	if err != nil {
		log.Fatal(err)
	}
	if res.Committed() {
		fmt.Println("added")
	}

Rejections with a reason ("wrong answer", "too short") are shown with an alert
dialog unless WithNotifier replaces it.
*/
package taskgate
