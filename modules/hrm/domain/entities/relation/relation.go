package relation

import (
	"strings"

	"github.com/iota-uz/hradmin/pkg/constants"
	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

type Relation struct {
	ID        entity.ID `json:"id" yaml:"id"`
	ShortCode string    `json:"short_code" yaml:"short_code"`
	Name      string    `json:"name" yaml:"name"`
}

func (r Relation) EntityID() entity.ID { return r.ID }

// Draft is the create/update payload.
type Draft struct {
	ShortCode string `json:"short_code" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

func (d Draft) Normalized() Draft {
	return Draft{
		ShortCode: strings.TrimSpace(d.ShortCode),
		Name:      strings.TrimSpace(d.Name),
	}
}

func (d Draft) Validate() serrors.ValidationErrors {
	return constants.ValidateStruct(d.Normalized())
}

func DraftFrom(r Relation) Draft {
	return Draft{ShortCode: r.ShortCode, Name: r.Name}
}
