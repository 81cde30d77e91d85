// Package importer turns uploaded tabular files (csv or xlsx) into domain
// records. Import is two-staged: Validate parses and partitions rows into
// accepted records and row errors, the conversation layer shows a summary and
// asks for confirmation, then Commit upserts the accepted rows.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainerrors "sanad/pkg/domain-errors"
)

// Kind selects which table an import targets.
type Kind string

const (
	KindMembers    Kind = "members"
	KindDeliveries Kind = "deliveries"
	KindRequests   Kind = "requests"
)

// Canonical field names per kind, in validation order. The first empty
// mandatory field wins the row error; later checks never run for that row.
var mandatoryFields = map[Kind][]string{
	KindMembers:    {"name", "passport", "phone", "address", "role", "family_members"},
	KindDeliveries: {"supervisor", "passport", "member_name", "delivery_date"},
	KindRequests:   {"passport", "service_name", "request_date", "requester"},
}

// headerAliases maps accepted header spellings, Arabic and English, to
// canonical field names. Unrecognized headers pass through unchanged and are
// ignored downstream.
var headerAliases = map[string]string{
	"الاسم":            "name",
	"اسم":              "name",
	"name":             "name",
	"الجواز":           "passport",
	"رقم_الجواز":       "passport",
	"رقم الجواز":       "passport",
	"passport":         "passport",
	"الهاتف":           "phone",
	"رقم الهاتف":       "phone",
	"phone":            "phone",
	"العنوان":          "address",
	"address":          "address",
	"الصفة":            "role",
	"الدور":            "role",
	"role":             "role",
	"عدد_افراد_الاسرة": "family_members",
	"عدد افراد الاسرة": "family_members",
	"family_members":   "family_members",
	"family members":   "family_members",
	"المشرف":           "supervisor",
	"supervisor":       "supervisor",
	"اسم_العضو":        "member_name",
	"اسم العضو":        "member_name",
	"member_name":      "member_name",
	"member name":      "member_name",
	"تاريخ_التسليم":    "delivery_date",
	"تاريخ التسليم":    "delivery_date",
	"delivery_date":    "delivery_date",
	"الخدمة":           "service_name",
	"اسم الخدمة":       "service_name",
	"service_name":     "service_name",
	"service":          "service_name",
	"تاريخ_الطلب":      "request_date",
	"تاريخ الطلب":      "request_date",
	"request_date":     "request_date",
	"مقدم_الطلب":       "requester",
	"مقدم الطلب":       "requester",
	"requester":        "requester",
}

// Row is one accepted data row keyed by canonical field name. Kept as a flat
// string map so in-progress imports serialize cleanly into session scratch.
type Row map[string]string

// RowError is a rejected row. Index is 1-based over data rows (the header
// row is not counted).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Report is the outcome of the validation stage.
type Report struct {
	Kind   Kind       `json:"kind"`
	Rows   []Row      `json:"rows"`
	Errors []RowError `json:"errors,omitempty"`
	Total  int        `json:"total"`
}

// errorSample caps how many row errors a summary quotes.
const errorSample = 5

// Summary renders the bounded text shown before the confirmation step.
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows read, %d accepted, %d rejected", r.Total, len(r.Rows), len(r.Errors))
	for i, e := range r.Errors {
		if i == errorSample {
			fmt.Fprintf(&b, "\n… and %d more errors", len(r.Errors)-errorSample)
			break
		}
		b.WriteString("\n")
		b.WriteString(e.String())
	}
	return b.String()
}

// dateLayouts accepted for delivery_date / request_date values.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func parseFamily(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("not a positive integer: %q", raw)
	}
	return n, nil
}

// Validate parses raw file bytes into a Report. The filename drives format
// sniffing, with a content fallback. A file whose header row yields none of
// the kind's mandatory fields is rejected outright.
func Validate(kind Kind, filename string, data []byte) (Report, error) {
	fields, ok := mandatoryFields[kind]
	if !ok {
		return Report{}, domainerrors.New(domainerrors.CodeBadRequest, "unknown import kind")
	}

	table, err := parseTable(filename, data)
	if err != nil {
		return Report{}, err
	}
	if len(table) == 0 {
		return Report{}, domainerrors.New(domainerrors.CodeValidation, "file has no header row")
	}

	header := normalizeHeader(table[0])
	recognized := false
	for _, f := range fields {
		if _, ok := header[f]; ok {
			recognized = true
			break
		}
	}
	if !recognized {
		return Report{}, domainerrors.New(domainerrors.CodeValidation, "no recognized columns in header row")
	}

	report := Report{Kind: kind}
	for i, raw := range table[1:] {
		rowNum := i + 1
		if blankRow(raw) {
			continue
		}
		report.Total++

		row := make(Row, len(fields))
		for name, col := range header {
			if col < len(raw) {
				row[name] = strings.TrimSpace(raw[col])
			}
		}

		if err := checkRow(kind, fields, row); err != "" {
			report.Errors = append(report.Errors, RowError{Row: rowNum, Message: err})
			continue
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// checkRow returns the first failing check's message, or "".
func checkRow(kind Kind, fields []string, row Row) string {
	for _, f := range fields {
		if row[f] == "" {
			return "missing " + f
		}
	}
	switch kind {
	case KindMembers:
		if _, err := parseFamily(row["family_members"]); err != nil {
			return "family_members must be a positive whole number"
		}
	case KindDeliveries:
		if _, err := parseDate(row["delivery_date"]); err != nil {
			return "invalid delivery_date"
		}
	case KindRequests:
		if _, err := parseDate(row["request_date"]); err != nil {
			return "invalid request_date"
		}
	}
	return ""
}

// normalizeHeader maps canonical field name to column index. When a file
// repeats a header, the first occurrence wins.
func normalizeHeader(raw []string) map[string]int {
	header := make(map[string]int)
	for i, h := range raw {
		canonical, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, seen := header[canonical]; !seen {
			header[canonical] = i
		}
	}
	return header
}

func blankRow(raw []string) bool {
	for _, cell := range raw {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
