package export_test

import (
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/amirasaad/txnimport/pkg/export"
	"github.com/amirasaad/txnimport/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type ExportTestSuite struct {
	testutils.E2ETestSuite
	token string
}

func TestExportTestSuite(t *testing.T) {
	suite.Run(t, new(ExportTestSuite))
}

func (s *ExportTestSuite) SetupTest() {
	s.E2ETestSuite.SetupTest()
	_, s.token = s.CompletedUser()
}

func (s *ExportTestSuite) TestRequiresAccount() {
	resp := s.MakeRequest(fiber.MethodGet, "/exports/sossoldi", "", s.token)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusPreconditionFailed, resp.StatusCode)
}

func (s *ExportTestSuite) TestExportAttachment() {
	resp := s.MakeRequest(fiber.MethodPost, "/accounts",
		`{"name":"N26","iban":"DE89370400440532013000","bank_type":"n26"}`, s.token)
	resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)

	resp = s.MakeRequest(fiber.MethodGet, "/exports/sossoldi", "", s.token)
	defer resp.Body.Close() //nolint:errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get(fiber.HeaderContentType), "text/csv")
	s.Equal(fmt.Sprintf("attachment; filename=%q", "export.csv"), resp.Header.Get(fiber.HeaderContentDisposition))

	records, err := csv.NewReader(resp.Body).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(export.SossoldiHeader, records[0])
	s.Equal("bankAccount", records[1][0])
}
