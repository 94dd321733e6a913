package models

// Patch types carry partial updates. A nil field is left untouched.

type UserPatch struct {
	Name         *string `json:"name"`
	Avatar       *string `json:"avatar"`
	PasswordHash *string `json:"-"`
}

type ContentPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Cover       *string `json:"cover"`
}

type CoursePatch struct {
	Title      *string `json:"title"`
	Instructor *string `json:"instructor"`
	Cover      *string `json:"cover"`
}

type ProgressPatch struct {
	Progress  *int  `json:"progress"`
	Completed *bool `json:"completed"`
}

type EventPatch struct {
	Title    *string  `json:"title"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Location *string  `json:"location"`
	Distance *float64 `json:"distance"`
	Cover    *string  `json:"cover"`
}

type GroupPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cover       *string `json:"cover"`
	Icon        *string `json:"icon"`
}

type CheckinPatch struct {
	Content *string `json:"content"`
	Emoji   *string `json:"emoji"`
}

// Empty reports whether the patch sets nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Avatar == nil && p.PasswordHash == nil
}

func (p ContentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Cover == nil
}

func (p CoursePatch) Empty() bool {
	return p.Title == nil && p.Instructor == nil && p.Cover == nil
}

func (p ProgressPatch) Empty() bool {
	return p.Progress == nil && p.Completed == nil
}

func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Category == nil && p.Date == nil && p.Location == nil && p.Distance == nil && p.Cover == nil
}

func (p GroupPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Cover == nil && p.Icon == nil
}

func (p CheckinPatch) Empty() bool {
	return p.Content == nil && p.Emoji == nil
}
