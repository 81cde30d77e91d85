package importer

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"sanad/internal/domain"
)

// Export writers produce the xlsx documents the conversation layer sends
// back as files. Headers use the Arabic labels operators know from the
// legacy rosters.

const dateFormat = "2006-01-02 15:04"

// ExportMembers renders the member roster.
func ExportMembers(members []domain.Member) ([]byte, error) {
	rows := make([][]any, 0, len(members))
	for _, m := range members {
		rows = append(rows, []any{m.Name, m.Passport, m.Phone, m.Address, m.RoleLabel, m.FamilySize})
	}
	return writeSheet("Members",
		[]string{"الاسم", "الجواز", "الهاتف", "العنوان", "الصفة", "عدد_افراد_الاسرة"}, rows)
}

// ExportDeliveries renders a delivery log.
func ExportDeliveries(deliveries []domain.Delivery) ([]byte, error) {
	rows := make([][]any, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, []any{d.Supervisor, d.Passport, d.MemberName, d.DeliveredAt.Format(dateFormat)})
	}
	return writeSheet("Deliveries",
		[]string{"المشرف", "رقم_الجواز", "اسم_العضو", "تاريخ_التسليم"}, rows)
}

// ExportRequests renders a service-request log.
func ExportRequests(requests []domain.ServiceRequest) ([]byte, error) {
	rows := make([][]any, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, []any{r.Passport, r.ServiceName, r.RequestedAt.Format(dateFormat), r.Requester})
	}
	return writeSheet("Requests",
		[]string{"رقم_الجواز", "الخدمة", "تاريخ_الطلب", "مقدم_الطلب"}, rows)
}

// ExportAssistants renders the assistant roster, credentials included, for
// the root administrator only.
func ExportAssistants(assistants []domain.Assistant) ([]byte, error) {
	rows := make([][]any, 0, len(assistants))
	for _, a := range assistants {
		rows = append(rows, []any{a.Username, a.Password})
	}
	return writeSheet("Assistants", []string{"username", "password"}, rows)
}

// Statistics is the aggregate snapshot exported from the stats menu.
type Statistics struct {
	Members     int
	FamilyTotal int
	Deliveries  int
	Requests    int
	Assistants  int
	Subscribers int
	ByService   map[string]int
}

// ExportStatistics renders the statistics summary as label/value pairs
// followed by per-service request counts.
func ExportStatistics(stats Statistics) ([]byte, error) {
	rows := [][]any{
		{"إجمالي الأعضاء", stats.Members},
		{"إجمالي أفراد الأسر", stats.FamilyTotal},
		{"إجمالي التسليمات", stats.Deliveries},
		{"إجمالي الطلبات", stats.Requests},
		{"إجمالي المشرفين", stats.Assistants},
		{"إجمالي المستخدمين", stats.Subscribers},
	}

	services := make([]string, 0, len(stats.ByService))
	for name := range stats.ByService {
		services = append(services, name)
	}
	sort.Strings(services)
	for _, name := range services {
		rows = append(rows, []any{"طلبات " + name, stats.ByService[name]})
	}

	return writeSheet("Statistics", []string{"البيان", "القيمة"}, rows)
}

// writeSheet builds a single-sheet workbook with a bold header row.
func writeSheet(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
