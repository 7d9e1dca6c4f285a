package model

import "encoding/json"

// Typed views over the opaque sub-objects. Persistence keeps the raw
// encoding; these exist for consumers (exports, API responses) that want the
// well-known fields without caring about the extras the generator invents.

// Timeline is the structured initiative timeline.
type Timeline struct {
	Start    FlexString     `json:"start"`
	Duration FlexString     `json:"duration"`
	End      FlexString     `json:"end"`
	Status   FlexString     `json:"status"`
	Phases   FlexStringList `json:"phases"`
}

// SuccessMetrics is the structured success-metric block.
type SuccessMetrics struct {
	Baseline    FlexString     `json:"baseline"`
	Target      FlexString     `json:"target"`
	Measurement FlexString     `json:"measurement"`
	KPIs        FlexStringList `json:"kpis"`
}

// WorkforceImpact is the structured workforce-impact block.
type WorkforceImpact struct {
	SkillsDevelopment FlexString `json:"skillsDevelopment"`
	TrainingHours     FlexString `json:"trainingHours"`
	JobsAffected      FlexString `json:"jobsAffected"`
	Upskilling        FlexString `json:"upskilling"`
	RedundancyRisk    FlexString `json:"redundancyRisk"`
}

// ParseTimeline decodes a timeline view from its raw form. A scalar or
// malformed value yields the zero view.
func ParseTimeline(j JSONText) Timeline {
	var t Timeline
	if raw := j.Raw(); raw != nil {
		_ = json.Unmarshal(raw, &t)
	}
	return t
}

// ParseSuccessMetrics decodes a success-metrics view from its raw form.
func ParseSuccessMetrics(j JSONText) SuccessMetrics {
	var m SuccessMetrics
	if raw := j.Raw(); raw != nil {
		_ = json.Unmarshal(raw, &m)
	}
	return m
}

// ParseWorkforceImpact decodes a workforce-impact view from its raw form.
func ParseWorkforceImpact(j JSONText) WorkforceImpact {
	var w WorkforceImpact
	if raw := j.Raw(); raw != nil {
		_ = json.Unmarshal(raw, &w)
	}
	return w
}
