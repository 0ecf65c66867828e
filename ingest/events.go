package ingest

import (
	"encoding/json"
	"fmt"
)

// Listener is a callback invoked with a structured event for every notable
// step of an ingestion pass, in place of a logging library.
type Listener func(fmt.Stringer)

// EventMerged is emitted after a spec line is successfully parsed and
// merged into the sink.
type EventMerged struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Package string `json:"package,omitempty"`
	Change  string `json:"change,omitempty"`
}

func (e EventMerged) String() string {
	b, _ := json.Marshal(e)
	return fmt.Sprintf("merged %s", b)
}

// EventSkipped is emitted when an unrecognized '#' line is ignored. Blank
// lines are skipped without an event.
type EventSkipped struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (e EventSkipped) String() string {
	b, _ := json.Marshal(e)
	return fmt.Sprintf("skipped %s", b)
}

// EventDirective is emitted when a CPP line directive is recognized.
type EventDirective struct {
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	Entry bool   `json:"entry,omitempty"`
}

func (e EventDirective) String() string {
	b, _ := json.Marshal(e)
	return fmt.Sprintf("directive %s", b)
}

// EventPragma is emitted when a #pragma LCFG directive updates the
// carry-forward metadata.
type EventPragma struct {
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value,omitempty"`
}

func (e EventPragma) String() string {
	b, _ := json.Marshal(e)
	return fmt.Sprintf("pragma %s", b)
}

// EventStanza is emitted after a Debian-index stanza is flushed.
type EventStanza struct {
	Index   int    `json:"index,omitempty"`
	Package string `json:"package,omitempty"`
	Change  string `json:"change,omitempty"`
}

func (e EventStanza) String() string {
	b, _ := json.Marshal(e)
	return fmt.Sprintf("stanza %s", b)
}
