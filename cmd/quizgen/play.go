package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/session"
)

// play runs one answering round on a Ready session: every question is asked once,
// then the answers are submitted and the review is printed.
// A blank line leaves the question unanswered.
func play(sess *session.Session, in io.Reader, out io.Writer) (int, error) {
	view, err := sess.Render()
	if err != nil {
		return 0, err
	}

	scanner := bufio.NewScanner(in)
	for _, q := range view.Questions {
		fmt.Fprintf(out, "\nQ%d. %s\n", q.Index+1, q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		for {
			fmt.Fprintf(out, "Answer [1-%d, blank to skip]: ", domain.OptionCount)
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				break
			}
			choice, err := strconv.Atoi(line)
			if err == nil {
				if err = sess.Select(q.Index, choice-1); err == nil {
					break
				}
			}
			fmt.Fprintf(out, "Please enter a number between 1 and %d.\n", domain.OptionCount)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read answers: %w", err)
	}

	score, err := sess.Submit()
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "\nScore: %d/%d\n", score, len(view.Questions))

	items, err := sess.Review()
	if err != nil {
		return score, err
	}
	for _, item := range items {
		mark := "wrong"
		if item.IsCorrect {
			mark = "correct"
		}
		selected := "(no answer)"
		if item.Selected != domain.Unanswered {
			selected = item.SelectedText
		}
		fmt.Fprintf(out, "Q%d %s: you chose %s, answer: %s\n", item.Index+1, mark, selected, item.CorrectOption)
	}
	return score, nil
}
