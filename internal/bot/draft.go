package bot

import (
	"sync"

	"moviegate_bot/internal/model"
)

// step identifies which field a draft is waiting for next.
type step int

const (
	stepTitle step = iota
	stepPoster
	stepLanguage
	stepQuality
	stepLink
	stepMore    // waiting for the "add another" / "finish" buttons
	stepConfirm // waiting for the "publish" / "cancel" buttons
	stepChanName
	stepChanLink
	stepZone
	stepClicks
	stepGrant
	stepRevoke
)

// draft is the in-progress record for one chat. A chat has at most one
// draft; starting a new flow replaces it.
type draft struct {
	step           step
	title          string
	posterURL      string
	language       string
	pendingQuality string
	links          []model.QualityLink
	chanName       string
}

// drafts holds the per-chat draft state. Access is keyed by chat id only;
// no state is shared across chats.
type drafts struct {
	mu     sync.Mutex
	byChat map[int64]*draft
}

func newDrafts() *drafts {
	return &drafts{byChat: make(map[int64]*draft)}
}

// begin creates a fresh draft for the chat at the given step, replacing any
// existing draft.
func (d *drafts) begin(chatID int64, s step) *draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	dr := &draft{step: s}
	d.byChat[chatID] = dr
	return dr
}

// get returns the chat's draft, or nil if the chat has none.
func (d *drafts) get(chatID int64) *draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.byChat[chatID]
}

// end discards the chat's draft. Ending a chat without a draft is a no-op.
func (d *drafts) end(chatID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byChat, chatID)
}
