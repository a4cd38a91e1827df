package apps

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Gaurav-Gosain/winshell/internal/client"
)

// ChatEvent is the broadcast event the chat app sends and listens for.
const ChatEvent = "chat"

// ChatLine is one chat message.
type ChatLine struct {
	From string `json:"from"`
	Text string `json:"text"`
}

var chatSeq atomic.Int64

// chat shows every chat line broadcast by any window, its own included.
type chat struct {
	c    *client.Client
	name string

	mu    sync.Mutex
	log   []ChatLine
	input lineInput
	err   error
}

func newChat() *chat {
	return &chat{name: fmt.Sprintf("user%d", chatSeq.Add(1))}
}

func (ch *chat) Start(c *client.Client) {
	ch.c = c
	c.OnWindowArg(func(raw json.RawMessage) {
		var name string
		if json.Unmarshal(raw, &name) == nil && name != "" {
			ch.mu.Lock()
			ch.name = name
			ch.mu.Unlock()
		}
	})
	c.OnBroadcastEvent(ChatEvent, func(raw json.RawMessage) {
		var line ChatLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return
		}
		ch.mu.Lock()
		ch.log = append(ch.log, line)
		ch.mu.Unlock()
	})
}

func (ch *chat) Key(key, text string) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if key != "enter" {
		ch.input.key(key, text)
		return
	}
	if ch.input.String() == "" {
		return
	}
	ch.err = ch.c.BroadcastEvent(ChatEvent, ChatLine{From: ch.name, Text: ch.input.String()})
	ch.input.reset()
}

// Lines returns the chat history.
func (ch *chat) Lines() []ChatLine {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return append([]ChatLine(nil), ch.log...)
}

func (ch *chat) View(width, height int) string {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	lines := make([]string, 0, len(ch.log)+2)
	for _, l := range ch.log {
		lines = append(lines, accentStyle.Render(l.From+":")+" "+l.Text)
	}
	if ch.err != nil {
		lines = append(lines, dimStyle.Render("send failed: "+ch.err.Error()))
	}
	lines = append(lines, ch.name+"> "+ch.input.view(width-len(ch.name)-2))
	return fit(lines, width, height)
}

func (ch *chat) Info() Info {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return Info{Title: "Chat (" + ch.name + ")", Icon: "✉", PreferredWidth: 44, PreferredHeight: 12}
}
