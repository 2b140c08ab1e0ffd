// Package stream transcodes the provider's raw event sequence into a
// simplified line-delimited event stream while accumulating usage totals.
package stream

import (
	"encoding/json"
	"io"

	"github.com/tidwall/gjson"

	"github.com/claudebridge/claudebridge/chat"
	"github.com/claudebridge/claudebridge/provider"
)

// ContentType is the advertised media type of the encoded output stream.
const ContentType = "application/x-ndjson"

// Event is one outbound record carrying exactly one text delta.
type Event struct {
	Text string `json:"text"`
}

// Transcode consumes raw provider events and republishes their text deltas in
// arrival order on the returned event channel. Usage counters found on any
// event are accumulated and delivered exactly once on the usage channel, only
// after the event channel has been closed.
//
// The spawned goroutine is the sole writer of both channels. It drains the
// input fully; abandoning the event channel does not stop it.
func Transcode(in <-chan provider.Event) (<-chan Event, <-chan chat.Usage) {
	out := make(chan Event, 32)
	usageCh := make(chan chat.Usage, 1)

	go func() {
		var usage chat.Usage
		for ev := range in {
			usage.Add(usageDelta(ev))
			if text, ok := textDelta(ev); ok {
				out <- Event{Text: text}
			}
		}
		close(out)
		usageCh <- usage
		close(usageCh)
	}()

	return out, usageCh
}

// usageDelta extracts incremental usage counters from a raw event, checking
// both the top-level usage field and the nested message.usage field.
// Providers report partial usage per chunk, so totals must be accumulated
// rather than overwritten.
func usageDelta(ev provider.Event) chat.Usage {
	var delta chat.Usage
	for _, path := range []string{"usage", "message.usage"} {
		if u := gjson.GetBytes(ev, path); u.Exists() {
			delta.InputTokens += int(u.Get("input_tokens").Int())
			delta.OutputTokens += int(u.Get("output_tokens").Int())
		}
	}
	return delta
}

// textDelta reports the text carried by a content delta event. Every other
// event kind is skipped for emission purposes.
func textDelta(ev provider.Event) (string, bool) {
	if gjson.GetBytes(ev, "type").String() != "content_block_delta" {
		return "", false
	}
	delta := gjson.GetBytes(ev, "delta")
	if delta.Get("type").String() != "text_delta" {
		return "", false
	}
	return delta.Get("text").String(), true
}

// Encode writes each event as one self-contained JSON line until the channel
// closes. It stops at the first write error.
func Encode(w io.Writer, events <-chan Event) error {
	enc := json.NewEncoder(w)
	for ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}
