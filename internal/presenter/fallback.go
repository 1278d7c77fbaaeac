package presenter

import (
	"time"

	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// FallbackPresenter serves every category no dedicated presenter owns. It is
// the one presenter allowed to pass the raw payload through, so unregistered
// categories render rather than error.
type FallbackPresenter struct {
	fmt *format.Formatter
}

func NewFallbackPresenter(f *format.Formatter) *FallbackPresenter {
	return &FallbackPresenter{fmt: f}
}

func (p *FallbackPresenter) Categories() []string {
	return nil
}

func (p *FallbackPresenter) DefaultSlug(category string) string {
	// no better information than the category itself
	return category
}

func (p *FallbackPresenter) NewPayload(string) interface{} {
	return &map[string]interface{}{}
}

func (p *FallbackPresenter) Present(req *Request, _ time.Time) (map[string]interface{}, error) {
	return map[string]interface{}{
		"category":  req.Category,
		"recipient": p.fmt.Recipient(req.Recipient),
		"metadata":  req.Metadata,
		"payload":   req.Payload,
	}, nil
}
