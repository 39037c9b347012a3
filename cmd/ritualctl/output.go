package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/altar-backend/internal/api"
)

// printer renders command results in the selected format.
type printer struct {
	format string
	w      io.Writer
}

// print writes v as JSON or YAML, or calls text for the text format.
func (p printer) print(v any, text func(w io.Writer) error) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// Round-trip through JSON so YAML keys match the API field names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(p.w)
	}
}

func writeActive(w io.Writer, a *api.ActiveInvocation) error {
	if a == nil {
		_, err := fmt.Fprintln(w, "nothing invoked")
		return err
	}

	remaining := time.Duration(a.RemainingSeconds) * time.Second
	fmt.Fprintf(w, "%s (%s), %s\n", a.Subject.Name, a.Subject.ID, a.Subject.Pantheon)
	if a.State.InvokedAt != nil {
		fmt.Fprintf(w, "  invoked:   %s\n", a.State.InvokedAt.Format(time.RFC3339))
	}
	if a.Expired {
		fmt.Fprintf(w, "  deadline:  %s (expired)\n", a.Deadline.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "  deadline:  %s (%s left)\n", a.Deadline.Format(time.RFC3339), formatRemaining(remaining))
	}
	switch {
	case a.CanOffer:
		_, err := fmt.Fprintln(w, "  offering:  available")
		return err
	case a.OfferingAvailableAt != nil:
		_, err := fmt.Fprintf(w, "  offering:  available at %s\n", a.OfferingAvailableAt.Format(time.RFC3339))
		return err
	}
	return nil
}

func writeRoster(w io.Writer, roster []api.RosterItem) error {
	if len(roster) == 0 {
		_, err := fmt.Fprintln(w, "roster is empty")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPANTHEON\tLAST INVOKED")
	for _, item := range roster {
		last := "never"
		if item.State.InvokedAt != nil {
			last = item.State.InvokedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.Subject.ID, item.Subject.Name, item.Subject.Pantheon, last)
	}
	return tw.Flush()
}

func writeHistory(w io.Writer, h *api.HistoryResponse) error {
	if len(h.Entries) == 0 {
		_, err := fmt.Fprintf(w, "no sessions for %s\n", h.SubjectID)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tENDED\tDURATION")
	for _, e := range h.Entries {
		ended := "open"
		if e.EndedAt != nil {
			ended = e.EndedAt.Format(time.RFC3339)
		}
		d := time.Duration(e.DurationSeconds) * time.Second
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.StartedAt.Format(time.RFC3339), ended, d)
	}
	return tw.Flush()
}

// formatRemaining renders a countdown as hours and minutes.
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
