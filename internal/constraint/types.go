package constraint

// BehaviorConstraint holds the constraints attached to one named behavior.
// Each expression is unevaluated source text.
type BehaviorConstraint struct {
	Name           string   `json:"name" yaml:"name"`
	Preconditions  []string `json:"preconditions" yaml:"preconditions"`
	Postconditions []string `json:"postconditions" yaml:"postconditions"`
	Invariants     []string `json:"invariants" yaml:"invariants"`
}

// DomainConstraints is the full constraint set for one domain.
// Produced once per load and read-only thereafter.
type DomainConstraints struct {
	Domain           string               `json:"domain" yaml:"domain"`
	Behaviors        []BehaviorConstraint `json:"behaviors" yaml:"behaviors"`
	GlobalInvariants []string             `json:"global_invariants" yaml:"global_invariants"`
}

// Behavior returns the constraints for the named behavior, or nil.
func (dc *DomainConstraints) Behavior(name string) *BehaviorConstraint {
	for i := range dc.Behaviors {
		if dc.Behaviors[i].Name == name {
			return &dc.Behaviors[i]
		}
	}
	return nil
}

// normalize replaces nil slices with empty ones so the value serializes
// identically no matter which load path produced it.
func (dc *DomainConstraints) normalize() {
	if dc.Behaviors == nil {
		dc.Behaviors = []BehaviorConstraint{}
	}
	if dc.GlobalInvariants == nil {
		dc.GlobalInvariants = []string{}
	}
	for i := range dc.Behaviors {
		b := &dc.Behaviors[i]
		if b.Preconditions == nil {
			b.Preconditions = []string{}
		}
		if b.Postconditions == nil {
			b.Postconditions = []string{}
		}
		if b.Invariants == nil {
			b.Invariants = []string{}
		}
	}
}
