package models

// ReferencesModel References model for related data
type ReferencesModel struct {
	Lines []LineModel `json:"lines"`
	Stops []StopModel `json:"stops"`
	Trams []TramModel `json:"trams"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Lines: []LineModel{},
		Stops: []StopModel{},
		Trams: []TramModel{},
	}
}
