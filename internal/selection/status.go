package selection

import (
	"path/filepath"

	"romsel/internal/fileutil"
	"romsel/internal/records"
)

// ItemStatus reports where one listed rom currently lives.
type ItemStatus struct {
	Name                 string `json:"name"`
	Zip                  string `json:"zip"`
	InRomset             bool   `json:"in_romset"`
	InSelection          bool   `json:"in_selection"`
	HasCompanion         bool   `json:"has_chd"`
	CompanionInSelection bool   `json:"chd_in_selection"`
}

// Pending reports whether Add would copy this item.
func (st ItemStatus) Pending() bool {
	return st.InRomset && !st.InSelection
}

// Status inspects romset and selection for every listed rom without changing
// anything. Either directory may be empty to skip inspecting it.
func (s *Synchronizer) Status(file, romset, selection string) ([]ItemStatus, error) {
	recs, err := records.Parse(s.fs, file)
	if err != nil {
		return nil, err
	}

	out := make([]ItemStatus, 0, len(recs))
	for _, rec := range recs {
		name := rec.Name()
		st := ItemStatus{Name: name, Zip: name + ZipExt}
		if romset != "" {
			st.InRomset = fileutil.Exists(s.fs, filepath.Join(romset, st.Zip))
			st.HasCompanion = name != "" && fileutil.Exists(s.fs, filepath.Join(romset, name))
		}
		if selection != "" {
			st.InSelection = fileutil.Exists(s.fs, filepath.Join(selection, st.Zip))
			st.CompanionInSelection = name != "" && fileutil.Exists(s.fs, filepath.Join(selection, name))
		}
		out = append(out, st)
	}
	return out, nil
}
