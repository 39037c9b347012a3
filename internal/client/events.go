package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/heartmarshall/altar-backend/internal/api"
)

// EventName is the server-sent event carrying a change notification.
const EventName = "ritual.changed"

// Events subscribes to the change stream and calls fn for every change event.
// It blocks until ctx is cancelled or the stream ends. A clean end of stream
// returns ErrStreamClosed so callers can reconnect.
func (c *Client) Events(ctx context.Context, fn func(api.ChangeEvent)) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/rituals/events", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	c.log.InfoContext(ctx, "event stream connected")

	err = readEvents(bufio.NewScanner(resp.Body), func(name, data string) {
		if name != EventName {
			return
		}
		var ev api.ChangeEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			c.log.WarnContext(ctx, "malformed change event", "error", err)
			return
		}
		fn(ev)
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// readEvents parses the text/event-stream framing: field lines accumulate
// until a blank line dispatches the event. Comment lines start with ':'.
func readEvents(sc *bufio.Scanner, dispatch func(name, data string)) error {
	var (
		name string
		data []string
	)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if len(data) > 0 {
				if name == "" {
					name = "message"
				}
				dispatch(name, strings.Join(data, "\n"))
			}
			name, data = "", nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			name = value
		case "data":
			data = append(data, value)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return ErrStreamClosed
}

// ErrStreamClosed is returned when the server ends the event stream.
var ErrStreamClosed = errors.New("event stream closed")
