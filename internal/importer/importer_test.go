package importer

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"sanad/internal/domain"
	"sanad/internal/store"
	"sanad/internal/store/memory"
)

type ImporterSuite struct {
	suite.Suite
	stores    store.Stores
	committer *Committer
}

func (s *ImporterSuite) SetupTest() {
	s.stores = memory.New()
	s.committer = NewCommitter(s.stores)
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func membersCSV(rows ...string) []byte {
	var b bytes.Buffer
	b.WriteString("name,passport,phone,address,role,family_members\n")
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}
	return b.Bytes()
}

func (s *ImporterSuite) TestValidateMembers() {
	s.Run("first failing check wins per row", func() {
		data := membersCSV(
			`A,P1,055,Street 1,father,2`,
			`,P2,055,Street 2,mother,x`,
		)
		report, err := Validate(KindMembers, "members.csv", data)
		s.Require().NoError(err)

		s.Len(report.Rows, 1)
		s.Equal("P1", report.Rows[0]["passport"])
		s.Require().Len(report.Errors, 1)
		s.Equal(2, report.Errors[0].Row)
		s.Equal("missing name", report.Errors[0].Message)
	})

	s.Run("non numeric family size rejects the row", func() {
		report, err := Validate(KindMembers, "members.csv",
			membersCSV(`A,P1,055,Street 1,father,zero`))
		s.Require().NoError(err)
		s.Empty(report.Rows)
		s.Require().Len(report.Errors, 1)
		s.Contains(report.Errors[0].Message, "family_members")
	})

	s.Run("arabic headers normalize to canonical fields", func() {
		data := []byte("الاسم,الجواز,الهاتف,العنوان,الصفة,عدد_افراد_الاسرة\n" +
			"Omar,P9,055,Street 9,father,4\n")
		report, err := Validate(KindMembers, "members.csv", data)
		s.Require().NoError(err)
		s.Require().Len(report.Rows, 1)
		s.Equal("Omar", report.Rows[0]["name"])
		s.Equal("4", report.Rows[0]["family_members"])
	})

	s.Run("unrecognized headers are ignored", func() {
		data := []byte("name,passport,phone,address,role,family_members,notes\n" +
			"A,P1,055,Street 1,father,2,ignored\n")
		report, err := Validate(KindMembers, "m.csv", data)
		s.Require().NoError(err)
		s.Require().Len(report.Rows, 1)
		s.NotContains(report.Rows[0], "notes")
	})

	s.Run("header with no recognized columns is rejected", func() {
		_, err := Validate(KindMembers, "m.csv", []byte("foo,bar\n1,2\n"))
		s.Require().Error(err)
	})

	s.Run("blank rows are skipped silently", func() {
		data := membersCSV(`A,P1,055,Street 1,father,2`, `,,,,,`)
		report, err := Validate(KindMembers, "m.csv", data)
		s.Require().NoError(err)
		s.Equal(1, report.Total)
		s.Empty(report.Errors)
	})
}

func (s *ImporterSuite) TestValidateXLSX() {
	f := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"supervisor", "passport", "member_name", "delivery_date"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		s.Require().NoError(err)
		s.Require().NoError(f.SetCellValue(sheet, cell, h))
	}
	values := []string{"helper", "P1", "Omar", "2025-03-10"}
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		s.Require().NoError(err)
		s.Require().NoError(f.SetCellValue(sheet, cell, v))
	}
	buf, err := f.WriteToBuffer()
	s.Require().NoError(err)
	s.Require().NoError(f.Close())

	report, err := Validate(KindDeliveries, "deliveries.xlsx", buf.Bytes())
	s.Require().NoError(err)
	s.Require().Len(report.Rows, 1)
	s.Equal("helper", report.Rows[0]["supervisor"])
	s.Empty(report.Errors)
}

func (s *ImporterSuite) TestSummaryCapsErrors() {
	var rows []string
	for i := 0; i < 8; i++ {
		rows = append(rows, fmt.Sprintf(",P%d,055,Street,father,2", i))
	}
	report, err := Validate(KindMembers, "m.csv", membersCSV(rows...))
	s.Require().NoError(err)
	s.Len(report.Errors, 8)

	summary := report.Summary()
	s.Contains(summary, "8 rows read, 0 accepted, 8 rejected")
	s.Contains(summary, "row 5: missing name")
	s.NotContains(summary, "row 6: missing name")
	s.Contains(summary, "and 3 more errors")
}

func (s *ImporterSuite) TestCommitMembersUpsert() {
	ctx := context.Background()

	existing := domain.Member{
		Name: "Old Name", Passport: "P1", Phone: "1", Address: "a",
		RoleLabel: "father", FamilySize: 1,
	}
	s.Require().NoError(s.stores.Members.Create(ctx, existing))

	data := membersCSV(
		`New Name,P1,055,Street 1,father,3`,
		`Fresh,P2,056,Street 2,mother,2`,
	)
	report, err := Validate(KindMembers, "m.csv", data)
	s.Require().NoError(err)
	s.Require().Len(report.Rows, 2)

	res, err := s.committer.Commit(ctx, report)
	s.Require().NoError(err)
	s.Equal(1, res.Inserted)
	s.Equal(1, res.Updated)
	s.Empty(res.Errors)

	updated, err := s.stores.Members.FindByPassport(ctx, "P1")
	s.Require().NoError(err)
	s.Equal("New Name", updated.Name)
	s.Equal(3, updated.FamilySize)
}

func (s *ImporterSuite) TestCommitRequestsUpsert() {
	ctx := context.Background()
	s.Require().NoError(s.stores.Services.Create(ctx, domain.Service{Name: "food"}))

	data := []byte("passport,service_name,request_date,requester\n" +
		"P1,food,2025-03-10,Omar\n" +
		"P1,food,2025-03-11,Omar\n" +
		"P2,food,2025-03-10,Sara\n")
	report, err := Validate(KindRequests, "r.csv", data)
	s.Require().NoError(err)
	s.Require().Len(report.Rows, 3)

	res, err := s.committer.Commit(ctx, report)
	s.Require().NoError(err)
	s.Equal(2, res.Inserted)
	s.Equal(1, res.Updated)

	n, err := s.stores.Requests.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *ImporterSuite) TestCommitDeliveriesAllowsRepeats() {
	ctx := context.Background()

	data := []byte("المشرف,رقم_الجواز,اسم_العضو,تاريخ_التسليم\n" +
		"helper,P1,Omar,2025-03-10\n" +
		"helper,P1,Omar,2025-04-02\n")
	report, err := Validate(KindDeliveries, "d.csv", data)
	s.Require().NoError(err)

	res, err := s.committer.Commit(ctx, report)
	s.Require().NoError(err)
	s.Equal(2, res.Inserted)

	n, err := s.stores.Deliveries.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *ImporterSuite) TestExportRoundTrip() {
	members := []domain.Member{{
		Name: "Omar", Passport: "P1", Phone: "055", Address: "Street 1",
		RoleLabel: "father", FamilySize: 4,
	}}
	data, err := ExportMembers(members)
	s.Require().NoError(err)

	report, err := Validate(KindMembers, "members.xlsx", data)
	s.Require().NoError(err)
	s.Require().Len(report.Rows, 1)
	s.Equal("P1", report.Rows[0]["passport"])
	s.Equal("4", report.Rows[0]["family_members"])
	s.Empty(report.Errors)
}
