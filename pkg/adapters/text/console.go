package text

import (
	"context"
	"strconv"
	"strings"

	"github.com/aretw0/taskgate/internal/lineio"
)

// Prompt is printed before reading a new item.
const Prompt = "New task> "

// ReadItem asks for the next item to submit. It returns io.EOF when input ends.
func (s *Surface) ReadItem(ctx context.Context) (string, error) {
	for {
		s.printf("%s", Prompt)
		line, err := s.in.Read(ctx, nil)
		if err != nil {
			if lineio.IsInvalidInput(err) {
				s.printf("Error: %v. Please try again.\n", err)
				continue
			}
			return "", err
		}
		return line, nil
	}
}

// ShowItems prints the accepted items.
func (s *Surface) ShowItems(items []string) {
	if len(items) == 0 {
		s.printf("\nNo tasks yet.\n")
		return
	}
	var b strings.Builder
	b.WriteString("\nTasks:\n")
	for i, it := range items {
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(it)
		b.WriteString("\n")
	}
	s.printf("%s", b.String())
}

// Notice prints a system message.
func (s *Surface) Notice(msg string) {
	s.printf("\n[System] %s\n", msg)
}
