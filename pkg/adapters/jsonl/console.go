package jsonl

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/taskgate/internal/lineio"
)

// ReadItem emits a ready event and reads the next item: an add command, a JSON
// string, or a raw line. It returns io.EOF when input ends.
func (s *Surface) ReadItem(ctx context.Context) (string, error) {
	s.emit(Event{Event: EventReady})
	for {
		line, err := s.in.Read(ctx, nil)
		if err != nil {
			if lineio.IsInvalidInput(err) {
				s.emit(Event{Event: EventError, Error: err.Error()})
				continue
			}
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd := parseCommand(line)
		switch cmd.Action {
		case ActionAdd, ActionSubmit:
			return cmd.Text, nil
		default:
			s.emit(Event{Event: EventError, Error: fmt.Sprintf("expected an item, got action %q", cmd.Action)})
		}
	}
}

// ShowItems emits the accepted items. An empty list has no items field.
func (s *Surface) ShowItems(items []string) {
	s.emit(Event{Event: EventItems, Items: items})
}

// Notice emits a system message.
func (s *Surface) Notice(msg string) {
	s.emit(Event{Event: EventNotice, Message: msg})
}
