package report

import (
	"encoding/json"
	"io"

	"github.com/sarchlab/pagingsim/mem/vm"
)

type jsonTranslation struct {
	VirtualAddress  uint64  `json:"virtual_address"`
	Page            uint64  `json:"page"`
	Offset          uint64  `json:"offset"`
	Result          string  `json:"result"`
	Reason          string  `json:"reason,omitempty"`
	Frame           *uint64 `json:"frame,omitempty"`
	PhysicalAddress *uint64 `json:"physical_address,omitempty"`
}

type jsonResult struct {
	RunID          string            `json:"run_id"`
	Name           string            `json:"name,omitempty"`
	Description    string            `json:"description,omitempty"`
	Config         vm.Config         `json:"config"`
	NumPages       uint64            `json:"num_pages"`
	NumFrames      uint64            `json:"num_frames"`
	PageTableSize  uint64            `json:"page_table_size"`
	AllocatedPages uint64            `json:"allocated_pages"`
	PageTable      []*uint64         `json:"page_table,omitempty"`
	Translations   []jsonTranslation `json:"translations"`
}

// JSONReporter writes one JSON document per result.
type JSONReporter struct {
	enc *json.Encoder
}

// NewJSONReporter creates a JSONReporter writing into w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return &JSONReporter{enc: enc}
}

// Report writes res as a JSON document. Unmapped page table entries are null.
func (r *JSONReporter) Report(res Result) error {
	doc := jsonResult{
		RunID:          res.RunID,
		Name:           res.Name,
		Description:    res.Description,
		Config:         res.Config,
		NumPages:       res.NumPages,
		NumFrames:      res.NumFrames,
		PageTableSize:  res.PageTableSize,
		AllocatedPages: res.AllocatedPages,
		Translations:   make([]jsonTranslation, 0, len(res.Translations)),
	}

	if res.PageTable != nil {
		doc.PageTable = make([]*uint64, len(res.PageTable))
		for i, e := range res.PageTable {
			if e.Valid {
				frame := e.Frame
				doc.PageTable[i] = &frame
			}
		}
	}

	for _, t := range res.Translations {
		doc.Translations = append(doc.Translations, toJSONTranslation(t))
	}

	return r.enc.Encode(doc)
}

func toJSONTranslation(t vm.Translation) jsonTranslation {
	jt := jsonTranslation{
		VirtualAddress: t.VAddr,
		Page:           t.Page,
		Offset:         t.Offset,
		Result:         t.Kind.String(),
	}

	if pAddr, ok := t.PhysicalAddress(); ok {
		frame := t.Frame
		jt.Frame = &frame
		jt.PhysicalAddress = &pAddr
	} else {
		jt.Reason = t.Reason.String()
	}

	return jt
}
