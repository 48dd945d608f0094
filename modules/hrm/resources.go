package hrm

import (
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/employmentstatus"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/relation"
	"github.com/iota-uz/hradmin/modules/hrm/domain/entities/tribe"
	"github.com/iota-uz/hradmin/modules/hrm/services"
	"github.com/iota-uz/hradmin/pkg/gateway"
	"github.com/iota-uz/hradmin/pkg/listview"
)

// Tribes are the only collection the API wraps in an envelope.
var TribesResource = gateway.Resource{Name: "tribes", Path: "/tribes", ListEnvelope: "tribes"}

var RelationsResource = gateway.Resource{Name: "relations", Path: "/relations"}

var EmploymentStatusesResource = gateway.Resource{Name: "employment-statuses", Path: "/employment-statuses"}

const (
	FilterShortCode = "short_code"
	FilterName      = "name"
)

func TribeConfig() services.Config[tribe.Tribe] {
	shortCode := func(t tribe.Tribe) string { return t.ShortCode }
	name := func(t tribe.Tribe) string { return t.Name }
	return services.Config[tribe.Tribe]{
		Resource: TribesResource,
		Singular: "Tribe",
		Filter: listview.NewFilter(
			listview.Field[tribe.Tribe]{Key: FilterShortCode, Extract: shortCode},
			listview.Field[tribe.Tribe]{Key: FilterName, Extract: name},
		),
		Columns: []services.Column[tribe.Tribe]{
			{Header: "ID", Value: func(t tribe.Tribe) string { return t.ID.String() }},
			{Header: "Short Code", Value: shortCode},
			{Header: "Name", Value: name},
		},
		Label: func(t tribe.Tribe) string { return t.ShortCode + " " + t.Name },
	}
}

func RelationConfig() services.Config[relation.Relation] {
	shortCode := func(r relation.Relation) string { return r.ShortCode }
	name := func(r relation.Relation) string { return r.Name }
	return services.Config[relation.Relation]{
		Resource: RelationsResource,
		Singular: "Relation",
		Filter: listview.NewFilter(
			listview.Field[relation.Relation]{Key: FilterShortCode, Extract: shortCode},
			listview.Field[relation.Relation]{Key: FilterName, Extract: name},
		),
		Columns: []services.Column[relation.Relation]{
			{Header: "ID", Value: func(r relation.Relation) string { return r.ID.String() }},
			{Header: "Short Code", Value: shortCode},
			{Header: "Name", Value: name},
		},
		Label: func(r relation.Relation) string { return r.ShortCode + " " + r.Name },
	}
}

func EmploymentStatusConfig() services.Config[employmentstatus.EmploymentStatus] {
	name := func(s employmentstatus.EmploymentStatus) string { return s.Name }
	return services.Config[employmentstatus.EmploymentStatus]{
		Resource: EmploymentStatusesResource,
		Singular: "Employment status",
		Filter: listview.NewFilter(
			listview.Field[employmentstatus.EmploymentStatus]{Key: FilterName, Extract: name},
		),
		Columns: []services.Column[employmentstatus.EmploymentStatus]{
			{Header: "ID", Value: func(s employmentstatus.EmploymentStatus) string { return s.ID.String() }},
			{Header: "Name", Value: name},
		},
		Label: name,
	}
}
