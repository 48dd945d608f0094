package employmentstatus

import (
	"strings"

	"github.com/iota-uz/hradmin/pkg/constants"
	"github.com/iota-uz/hradmin/pkg/entity"
	"github.com/iota-uz/hradmin/pkg/serrors"
)

type EmploymentStatus struct {
	ID   entity.ID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
}

func (s EmploymentStatus) EntityID() entity.ID { return s.ID }

type Draft struct {
	Name string `json:"name" validate:"required"`
}

func (d Draft) Normalized() Draft {
	return Draft{Name: strings.TrimSpace(d.Name)}
}

func (d Draft) Validate() serrors.ValidationErrors {
	return constants.ValidateStruct(d.Normalized())
}

func DraftFrom(s EmploymentStatus) Draft {
	return Draft{Name: s.Name}
}
