package voters

// Voter is one row of the electoral roll. The schema is deliberately wide and
// flat; name fields come in English and vernacular-script variants, relation
// fields describe the voter's declared relative. Column names are the
// canonical snake_case set (the legacy import had a misspelled
// pollingst_addresss and spaced "comment 1"/"comment 2" columns; those are
// unified here to street/comment_1/comment_2).
type Voter struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VidNo string `gorm:"column:vid_no" json:"vid_no"`

	Age    int    `gorm:"column:age" json:"age"`
	Gender string `gorm:"column:gender" json:"gender"`
	Caste  string `gorm:"column:caste" json:"caste"`
	// Column name keeps the roll's historical spelling.
	Relegion string `gorm:"column:relegion" json:"relegion"`

	Booth            string `gorm:"column:booth" json:"booth"`
	CHouseNo         string `gorm:"column:c_house_no" json:"c_house_no"`
	PollingStAddress string `gorm:"column:polling_st_address" json:"polling_st_address"`
	Street           string `gorm:"column:street" json:"street"`

	FmNameEn   string `gorm:"column:fm_name_en" json:"fm_name_en"`
	FmNameV1   string `gorm:"column:fm_name_v1" json:"fm_name_v1"`
	LastnameEn string `gorm:"column:lastname_en" json:"lastname_en"`
	LastnameV1 string `gorm:"column:lastname_v1" json:"lastname_v1"`
	Surname    string `gorm:"column:surname" json:"surname"`

	Relation          string `gorm:"column:relation" json:"relation"`
	RelationName      string `gorm:"column:relationname" json:"relationname"`
	RelationNameEn    string `gorm:"column:relationnameen" json:"relationnameen"`
	RelationSurname   string `gorm:"column:relationsurname" json:"relationsurname"`
	RelationSurnameEn string `gorm:"column:relationsurnameen" json:"relationsurnameen"`

	MobileNo  string `gorm:"column:mobile_no" json:"mobile_no"`
	Comment1  string `gorm:"column:comment_1" json:"comment_1"`
	Comment2  string `gorm:"column:comment_2" json:"comment_2"`
	Sentiment string `gorm:"column:sentiment;default:'neutral'" json:"sentiment"`
}

func (Voter) TableName() string { return "voters" }

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)
