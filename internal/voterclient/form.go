package voterclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/VoterDesk/VD-Backend/internal/auth"
	"github.com/VoterDesk/VD-Backend/internal/voters"
	"github.com/goccy/go-yaml"
)

// ErrReadOnlyRole is returned by SubmitDraft for accounts that cannot submit
// records at all (viewers and unauthenticated sessions).
var ErrReadOnlyRole = errors.New("account role cannot submit voter records")

//go:embed permissions.yaml
var permissionsYAML []byte

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// roleEditable is the explicit role → editable-field table consulted by both
// CanEdit and SubmitDraft, replacing per-field ad hoc conditionals. The "*"
// entry marks a role that may edit everything.
var roleEditable map[string]map[string]struct{}

func init() {
	var pf permissionsFile
	if err := yaml.Unmarshal(permissionsYAML, &pf); err != nil {
		panic("voterclient: bad permissions.yaml: " + err.Error())
	}
	roleEditable = make(map[string]map[string]struct{}, len(pf.Roles))
	for role, fields := range pf.Roles {
		set := make(map[string]struct{}, len(fields))
		for _, f := range fields {
			set[f] = struct{}{}
		}
		roleEditable[role] = set
	}
}

// CanEdit reports whether a role may change the named field. Unknown roles
// may edit nothing.
func CanEdit(role, field string) bool {
	set, ok := roleEditable[role]
	if !ok {
		return false
	}
	if _, all := set["*"]; all {
		return true
	}
	_, ok = set[field]
	return ok
}

// EditableFields lists a role's editable fields, sorted. A wildcard role
// returns every voter field.
func EditableFields(role string) []string {
	set, ok := roleEditable[role]
	if !ok {
		return nil
	}
	if _, all := set["*"]; all {
		return append([]string(nil), voterFieldNames...)
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// voterFieldNames is the canonical field vocabulary shared by the form and
// the permission table. Sorted.
var voterFieldNames = []string{
	"age",
	"booth",
	"c_house_no",
	"caste",
	"comment_1",
	"comment_2",
	"fm_name_en",
	"fm_name_v1",
	"gender",
	"lastname_en",
	"lastname_v1",
	"mobile_no",
	"polling_st_address",
	"relation",
	"relationname",
	"relationnameen",
	"relationsurname",
	"relationsurnameen",
	"relegion",
	"sentiment",
	"street",
	"surname",
	"vid_no",
}

func fieldValues(v voters.Voter) map[string]string {
	return map[string]string{
		"age":                strconv.Itoa(v.Age),
		"booth":              v.Booth,
		"c_house_no":         v.CHouseNo,
		"caste":              v.Caste,
		"comment_1":          v.Comment1,
		"comment_2":          v.Comment2,
		"fm_name_en":         v.FmNameEn,
		"fm_name_v1":         v.FmNameV1,
		"gender":             v.Gender,
		"lastname_en":        v.LastnameEn,
		"lastname_v1":        v.LastnameV1,
		"mobile_no":          v.MobileNo,
		"polling_st_address": v.PollingStAddress,
		"relation":           v.Relation,
		"relationname":       v.RelationName,
		"relationnameen":     v.RelationNameEn,
		"relationsurname":    v.RelationSurname,
		"relationsurnameen":  v.RelationSurnameEn,
		"relegion":           v.Relegion,
		"sentiment":          v.Sentiment,
		"street":             v.Street,
		"surname":            v.Surname,
		"vid_no":             v.VidNo,
	}
}

// ChangedFields lists the fields whose values differ between two records,
// sorted by field name.
func ChangedFields(from, to voters.Voter) []string {
	a, b := fieldValues(from), fieldValues(to)
	out := make([]string, 0)
	for _, name := range voterFieldNames {
		if a[name] != b[name] {
			out = append(out, name)
		}
	}
	return out
}

var requiredFields = []string{
	"fm_name_en",
	"lastname_en",
	"age",
	"gender",
	"booth",
	"polling_st_address",
	"mobile_no",
	"vid_no",
}

var mobileRe = regexp.MustCompile(`^\d{10}$`)

// ValidateDraft runs the required-field and format checks. The result maps
// field name to message; an empty map means the draft may be submitted.
func ValidateDraft(d voters.Voter) map[string]string {
	errs := make(map[string]string)
	values := fieldValues(d)

	for _, name := range requiredFields {
		v := values[name]
		if name == "age" && d.Age == 0 {
			v = ""
		}
		if strings.TrimSpace(v) == "" {
			errs[name] = name + " is required"
		}
	}

	if d.Age != 0 && (d.Age < 18 || d.Age > 120) {
		errs["age"] = "Age must be between 18 and 120"
	}
	if d.MobileNo != "" && !mobileRe.MatchString(d.MobileNo) {
		errs["mobile_no"] = "Mobile number must be 10 digits"
	}

	return errs
}

// SubmitDraft enforces role permissions and validation, then submits the
// draft as a single-element batch. original is the record being edited, nil
// for a new record; any field changed relative to it must be editable by the
// session's role, so a programmatic edit of a forbidden field is rejected
// here with no network call. A non-empty field-error map blocks submission;
// on success the server-confirmed record is returned to replace the caller's
// optimistic copy.
func (c *Client) SubmitDraft(ctx context.Context, draft voters.Voter, original *voters.Voter) (voters.Voter, map[string]string, error) {
	role := c.session.Role()
	if role != auth.RoleAdmin && role != auth.RoleVolunteer {
		return voters.Voter{}, nil, ErrReadOnlyRole
	}

	base := voters.Voter{}
	if original != nil {
		base = *original
		draft.ID = original.ID
	}

	fieldErrs := make(map[string]string)
	for _, name := range ChangedFields(base, draft) {
		if !CanEdit(role, name) {
			fieldErrs[name] = fmt.Sprintf("%s is not editable for role %s", name, role)
		}
	}
	for name, msg := range ValidateDraft(draft) {
		if _, taken := fieldErrs[name]; !taken {
			fieldErrs[name] = msg
		}
	}
	if len(fieldErrs) > 0 {
		return voters.Voter{}, fieldErrs, nil
	}

	saved, err := c.SaveVoters(ctx, []voters.Voter{draft})
	if err != nil {
		return voters.Voter{}, nil, err
	}
	if len(saved) != 1 {
		return voters.Voter{}, nil, fmt.Errorf("expected 1 saved record, got %d", len(saved))
	}
	return saved[0], nil, nil
}
