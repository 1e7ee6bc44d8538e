package model

// YesNo is a binary categorical answer as encoded in the training dataset.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// FeatureColumns is the column order the grade model was fit on.
var FeatureColumns = [...]string{
	"G1",
	"G2",
	"studytime",
	"failures",
	"absences",
	"internet",
	"higher",
	"schoolsup",
}

// Columns returns a fresh copy of FeatureColumns.
func Columns() []string {
	return append([]string(nil), FeatureColumns[:]...)
}

// StudentRecord is the single-row feature record sent to the grade model.
// Field order matches FeatureColumns.
type StudentRecord struct {
	G1        int   `json:"G1"`
	G2        int   `json:"G2"`
	StudyTime int   `json:"studytime"`
	Failures  int   `json:"failures"`
	Absences  int   `json:"absences"`
	Internet  YesNo `json:"internet"`
	Higher    YesNo `json:"higher"`
	SchoolSup YesNo `json:"schoolsup"`
}

// DefaultStudentRecord returns the initial form state.
func DefaultStudentRecord() StudentRecord {
	return StudentRecord{
		G1:        10,
		G2:        10,
		StudyTime: 1,
		Failures:  0,
		Absences:  0,
		Internet:  Yes,
		Higher:    Yes,
		SchoolSup: Yes,
	}
}

// Row returns the record values in FeatureColumns order. Numeric features are
// int, categorical features are string.
func (r StudentRecord) Row() []any {
	return []any{
		r.G1,
		r.G2,
		r.StudyTime,
		r.Failures,
		r.Absences,
		string(r.Internet),
		string(r.Higher),
		string(r.SchoolSup),
	}
}

// PreviewCell is one column of the read-only record preview.
type PreviewCell struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// Preview pairs every column with its value, in model order.
func (r StudentRecord) Preview() []PreviewCell {
	row := r.Row()
	cells := make([]PreviewCell, len(FeatureColumns))
	for i, col := range FeatureColumns {
		cells[i] = PreviewCell{Column: col, Value: row[i]}
	}
	return cells
}

// PredictRequest is the payload for the form submit and the JSON API.
// Pointers distinguish a missing field from a legitimate zero.
type PredictRequest struct {
	G1        *int   `json:"G1" form:"G1" binding:"required,min=0,max=20"`
	G2        *int   `json:"G2" form:"G2" binding:"required,min=0,max=20"`
	StudyTime *int   `json:"studytime" form:"studytime" binding:"required,oneof=1 2 3 4"`
	Failures  *int   `json:"failures" form:"failures" binding:"required,min=0,max=5"`
	Absences  *int   `json:"absences" form:"absences" binding:"required,min=0,max=100"`
	Internet  string `json:"internet" form:"internet" binding:"required,oneof=yes no"`
	Higher    string `json:"higher" form:"higher" binding:"required,oneof=yes no"`
	SchoolSup string `json:"schoolsup" form:"schoolsup" binding:"required,oneof=yes no"`
}

// Record converts a validated request into a StudentRecord.
func (p PredictRequest) Record() StudentRecord {
	return StudentRecord{
		G1:        deref(p.G1),
		G2:        deref(p.G2),
		StudyTime: deref(p.StudyTime),
		Failures:  deref(p.Failures),
		Absences:  deref(p.Absences),
		Internet:  YesNo(p.Internet),
		Higher:    YesNo(p.Higher),
		SchoolSup: YesNo(p.SchoolSup),
	}
}

// RequestFromRecord builds a request carrying the record's values.
func RequestFromRecord(r StudentRecord) PredictRequest {
	return PredictRequest{
		G1:        &r.G1,
		G2:        &r.G2,
		StudyTime: &r.StudyTime,
		Failures:  &r.Failures,
		Absences:  &r.Absences,
		Internet:  string(r.Internet),
		Higher:    string(r.Higher),
		SchoolSup: string(r.SchoolSup),
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
