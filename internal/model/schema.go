package model

// ControlKind is the widget used to collect a feature.
type ControlKind string

const (
	ControlSlider ControlKind = "slider"
	ControlSelect ControlKind = "select"
	ControlNumber ControlKind = "number"
)

// FeatureControl describes one bounded input control of the form.
type FeatureControl struct {
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Help  string      `json:"help"`
	Kind  ControlKind `json:"kind"`
	// Min and Max are inclusive bounds; nil for select controls.
	Min     *int     `json:"min,omitempty"`
	Max     *int     `json:"max,omitempty"`
	Options []string `json:"options,omitempty"`
	Default string   `json:"default"`
	// Column places the control in the left (1) or right (2) form column.
	Column int `json:"column"`
}

// Influence is one row of the simplified direction-of-effect table.
type Influence struct {
	Factor      string `json:"factor"`
	Direction   string `json:"direction"`
	Explanation string `json:"explanation"`
}

// GlossaryEntry explains a feature or the target in plain words.
type GlossaryEntry struct {
	Term        string `json:"term"`
	Description string `json:"description"`
}

// Schema is everything a client needs to render the form.
type Schema struct {
	Target     string           `json:"target"`
	ScaleMin   int              `json:"scale_min"`
	ScaleMax   int              `json:"scale_max"`
	Columns    []string         `json:"columns"`
	Controls   []FeatureControl `json:"controls"`
	Influences []Influence      `json:"influences"`
	Glossary   []GlossaryEntry  `json:"glossary"`
}

// FeatureSchema returns the form description in FeatureColumns order.
func FeatureSchema() Schema {
	return Schema{
		Target:     "G3",
		ScaleMin:   0,
		ScaleMax:   20,
		Columns:    Columns(),
		Controls:   featureControls(),
		Influences: influences(),
		Glossary:   glossary(),
	}
}

func featureControls() []FeatureControl {
	yesNo := []string{string(Yes), string(No)}
	return []FeatureControl{
		{
			Name: "G1", Label: "G1 — Nilai periode 1", Kind: ControlSlider, Min: bound(0), Max: bound(20), Default: "10", Column: 1,
			Help: "Nilai siswa pada periode/semester pertama (skala 0–20).",
		},
		{
			Name: "G2", Label: "G2 — Nilai periode 2", Kind: ControlSlider, Min: bound(0), Max: bound(20), Default: "10", Column: 2,
			Help: "Nilai siswa pada periode/semester kedua (skala 0–20).",
		},
		{
			Name: "studytime", Label: "Studytime — Waktu belajar (1–4)", Kind: ControlSelect,
			Options: []string{"1", "2", "3", "4"}, Default: "1", Column: 1,
			Help: "Kategori waktu belajar mingguan. 1=sedikit, 4=banyak.",
		},
		{
			Name: "failures", Label: "Failures — Jumlah kegagalan akademik", Kind: ControlNumber, Min: bound(0), Max: bound(5), Default: "0", Column: 2,
			Help: "Jumlah kegagalan akademik sebelumnya (mis. pernah tidak lulus / mengulang). Nilai tinggi biasanya menurunkan prediksi.",
		},
		{
			Name: "absences", Label: "Absences — Jumlah absen", Kind: ControlNumber, Min: bound(0), Max: bound(100), Default: "0", Column: 1,
			Help: "Jumlah ketidakhadiran siswa selama periode data.",
		},
		{
			Name: "internet", Label: "Internet — Akses internet di rumah", Kind: ControlSelect, Options: yesNo, Default: "yes", Column: 1,
			Help: "Apakah siswa punya akses internet di rumah (yes/no).",
		},
		{
			Name: "higher", Label: "Higher — Ingin melanjutkan kuliah?", Kind: ControlSelect, Options: yesNo, Default: "yes", Column: 2,
			Help: "Apakah siswa berencana melanjutkan pendidikan ke jenjang lebih tinggi (yes/no).",
		},
		{
			Name: "schoolsup", Label: "Schoolsup — Dukungan sekolah?", Kind: ControlSelect, Options: yesNo, Default: "yes", Column: 2,
			Help: "Apakah siswa mendapat dukungan belajar tambahan dari sekolah (yes/no).",
		},
	}
}

func bound(n int) *int { return &n }

func influences() []Influence {
	return []Influence{
		{"G1", "Naik", "Nilai awal biasanya berlanjut"},
		{"G2", "Naik (kuat)", "Nilai periode 2 sangat dekat dengan nilai akhir"},
		{"Studytime", "Naik (kecil)", "Lebih banyak belajar sering membantu"},
		{"Failures", "Turun (kuat)", "Riwayat gagal biasanya menurunkan performa"},
		{"Absences", "Turun", "Sering absen membuat ketinggalan materi"},
		{"Internet", "Bervariasi", "Bisa membantu belajar, bisa juga distraksi"},
		{"Higher", "Cenderung naik", "Motivasi lanjut studi sering terkait usaha belajar"},
		{"School support", "Bervariasi", "Kadang diberi ke siswa yang butuh bantuan"},
	}
}

func glossary() []GlossaryEntry {
	return []GlossaryEntry{
		{"G1", "nilai periode/semester 1 (0–20)"},
		{"G2", "nilai periode/semester 2 (0–20)"},
		{"G3", "nilai akhir (target yang diprediksi) (0–20)"},
		{"studytime", "kategori waktu belajar (1–4)"},
		{"failures", "jumlah kegagalan akademik sebelumnya (mis. pernah tidak lulus / mengulang)"},
		{"absences", "jumlah ketidakhadiran"},
		{"internet", "akses internet di rumah (yes/no)"},
		{"higher", "rencana melanjutkan kuliah (yes/no)"},
		{"schoolsup", "dukungan belajar tambahan dari sekolah (yes/no)"},
	}
}
