package domain

// FilterCriteria narrows a list request. A zero field means no constraint.
type FilterCriteria struct {
	Title     string
	AniListID *int
	MalID     *int
	Formats   []Format
	Status    *Status
	Year      *int
	Season    *Season
	Genres    []string
	NSFW      *bool
}

// IsZero reports whether no constraint is set
func (f *FilterCriteria) IsZero() bool {
	if f == nil {
		return true
	}
	return f.Title == "" &&
		f.AniListID == nil &&
		f.MalID == nil &&
		len(f.Formats) == 0 &&
		f.Status == nil &&
		f.Year == nil &&
		f.Season == nil &&
		len(f.Genres) == 0 &&
		f.NSFW == nil
}

// Ptr returns a pointer to v, for filling optional criteria fields
func Ptr[T any](v T) *T {
	return &v
}
