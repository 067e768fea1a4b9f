// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package taxonomy holds the fixed label categories used to classify
// statements extracted from transcripts.
//
// Two namespaces exist. The episode namespace classifies a statement's
// veracity (FACT, OPINION, PREDICTION); the temporal namespace classifies
// its validity over time (STATIC, DYNAMIC, ATEMPORAL). The registry is built
// once at package initialization and never changes afterwards; every
// accessor returns copies so callers cannot mutate it.
package taxonomy

import "slices"

// Namespace identifies a group of label categories.
type Namespace string

const (
	// Episode classifies statements as FACT, OPINION or PREDICTION.
	Episode Namespace = "episode"
	// Temporal classifies statements as STATIC, DYNAMIC or ATEMPORAL.
	Temporal Namespace = "temporal"
)

// Category names.
const (
	Fact       = "FACT"
	Opinion    = "OPINION"
	Prediction = "PREDICTION"
	Static     = "STATIC"
	Dynamic    = "DYNAMIC"
	Atemporal  = "ATEMPORAL"
)

// LabelCategory describes one classification label.
type LabelCategory struct {
	Name                 string `json:"name"`
	Definition           string `json:"definition"`
	DateHandlingGuidance string `json:"date_handling_guidance"`
	DateHandlingExample  string `json:"date_handling_example"`
}

// Section is an ordered view of one namespace, used when the whole
// taxonomy is serialized into prompt instructions.
type Section struct {
	Namespace  Namespace
	Categories []LabelCategory
}

type namespaceEntry struct {
	namespace  Namespace
	categories []LabelCategory
}

var registry = []namespaceEntry{
	{
		namespace: Episode,
		categories: []LabelCategory{
			{
				Name: Fact,
				Definition: "Statements that are objective and can be independently " +
					"verified or falsified through evidence.",
				DateHandlingGuidance: "These statements can be made up of multiple static and " +
					"dynamic temporal events marking for example the start, end, " +
					"and duration of the fact described statement.",
				DateHandlingExample: "'Company A owns Company B in 2022', 'X caused Y to happen', " +
					"or 'John said X at Event' are verifiable facts which currently " +
					"hold true unless we have a contradictory fact.",
			},
			{
				Name: Opinion,
				Definition: "Statements that contain personal opinions, feelings, values, " +
					"or judgments that are not independently verifiable. It also " +
					"includes hypothetical and speculative statements.",
				DateHandlingGuidance: "This statement is always static. It is a record of the date the " +
					"opinion was made.",
				DateHandlingExample: "'I like Company A's strategy', 'X may have caused Y to happen', " +
					"or 'The event felt like X' are opinions and down to the reporters " +
					"interpretation.",
			},
			{
				Name: Prediction,
				Definition: "Uncertain statements about the future on something that might happen, " +
					"a hypothetical outcome, unverified claims. It includes interpretations " +
					"and suggestions. If the tense of the statement changed, the statement " +
					"would then become a fact.",
				DateHandlingGuidance: "This statement is always static. It is a record of the date the " +
					"prediction was made.",
				DateHandlingExample: "'It is rumoured that Dave will resign next month', 'Company A expects " +
					"X to happen', or 'X suggests Y' are all predictions.",
			},
		},
	},
	{
		namespace: Temporal,
		categories: []LabelCategory{
			{
				Name: Static,
				Definition: "Often past tense, think -ed verbs, describing single points-in-time. " +
					"These statements are valid from the day they occurred and are never " +
					"invalid. Refer to single points in time at which an event occurred, " +
					"the fact X occurred on that date will always hold true.",
				DateHandlingGuidance: "The valid_at date is the date the event occurred. The invalid_at date " +
					"is None.",
				DateHandlingExample: "'John was appointed CEO on 4th Jan 2024', 'Company A reported X percent " +
					"growth from last FY', or 'X resulted in Y to happen' are valid the day " +
					"they occurred and are never invalid.",
			},
			{
				Name: Dynamic,
				Definition: "Often present tense, think -ing verbs, describing a period of time. " +
					"These statements are valid for a specific period of time and are usually " +
					"invalidated by a Static fact marking the end of the event or start of a " +
					"contradictory new one. The statement could already be referring to a " +
					"discrete time period (invalid) or may be an ongoing relationship (not yet " +
					"invalid).",
				DateHandlingGuidance: "The valid_at date is the date the event started. The invalid_at date is " +
					"the date the event or relationship ended, for ongoing events this is None.",
				DateHandlingExample: "'John is the CEO', 'Company A remains a market leader', or 'X is continuously " +
					"causing Y to decrease' are valid from when the event started and are invalidated " +
					"by a new event.",
			},
			{
				Name: Atemporal,
				Definition: "Statements that will always hold true regardless of time therefore have no " +
					"temporal bounds.",
				DateHandlingGuidance: "These statements are assumed to be atemporal and have no temporal bounds. Both " +
					"their valid_at and invalid_at are None.",
				DateHandlingExample: "'A stock represents a unit of ownership in a company', 'The earth is round', or " +
					"'Europe is a continent'. These statements are true regardless of time.",
			},
		},
	},
}

func lookup(ns Namespace) (namespaceEntry, bool) {
	for _, entry := range registry {
		if entry.namespace == ns {
			return entry, true
		}
	}
	return namespaceEntry{}, false
}

// Namespaces returns the namespaces in registry order.
func Namespaces() []Namespace {
	out := make([]Namespace, len(registry))
	for i, entry := range registry {
		out[i] = entry.namespace
	}
	return out
}

// Categories returns the category names of a namespace in insertion order.
// Returns nil for an unknown namespace.
func Categories(ns Namespace) []string {
	entry, ok := lookup(ns)
	if !ok {
		return nil
	}
	names := make([]string, len(entry.categories))
	for i, c := range entry.categories {
		names[i] = c.Name
	}
	return names
}

// Category looks up a single category by namespace and name.
func Category(ns Namespace, name string) (LabelCategory, bool) {
	entry, ok := lookup(ns)
	if !ok {
		return LabelCategory{}, false
	}
	for _, c := range entry.categories {
		if c.Name == name {
			return c, true
		}
	}
	return LabelCategory{}, false
}

// Definitions returns an ordered snapshot of the whole taxonomy.
func Definitions() []Section {
	out := make([]Section, len(registry))
	for i, entry := range registry {
		out[i] = Section{
			Namespace:  entry.namespace,
			Categories: slices.Clone(entry.categories),
		}
	}
	return out
}

// IsStatementType reports whether name is an episode category.
func IsStatementType(name string) bool {
	_, ok := Category(Episode, name)
	return ok
}

// IsTemporalType reports whether name is a temporal category.
func IsTemporalType(name string) bool {
	_, ok := Category(Temporal, name)
	return ok
}
