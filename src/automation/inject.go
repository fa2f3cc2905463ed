package automation

import (
	"log"
	"time"
)

// injectPath places text into the focused input field through the shared
// clipboard: capture current contents (best effort), write the text, paste,
// settle, restore. Direct character injection is unreliable for arbitrary
// paths across locales and special characters; the buffer transfer is
// deterministic. The prior clipboard owner observes no net change when the
// capture succeeded.
func (e *Engine) injectPath(text string) error {
	prev, capErr := e.deps.Clip.Read()
	if capErr != nil {
		log.Printf("Could not capture clipboard before injection (continuing): %v", capErr)
	}

	if err := e.deps.Clip.Write(text); err != nil {
		return &Failure{Kind: KindFieldPopulation, Msg: "failed to place path on clipboard", Err: err}
	}
	if err := e.deps.Input.Paste(); err != nil {
		return &Failure{Kind: KindFieldPopulation, Msg: "failed to issue paste", Err: err}
	}
	time.Sleep(e.cfg.PasteSettleDelay)

	if capErr == nil {
		if err := e.deps.Clip.Write(prev); err != nil {
			log.Printf("Could not restore clipboard after injection: %v", err)
		}
	}
	return nil
}
