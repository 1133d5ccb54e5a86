package orchestrator

import (
	"fmt"
	"testing"

	"github.com/mcobservatory/observatory/internal/record"
)

// fixtureRecords builds n ServerRecords pointed at an address nothing
// answers (TEST-NET-1, RFC 5737), for tests that only need to exercise
// the failure path without a live server.
func fixtureRecords(t *testing.T, n int) []*record.ServerRecord {
	t.Helper()
	records := make([]*record.ServerRecord, n)
	for i := range records {
		records[i] = record.NewServerRecord(fmt.Sprintf("fixture-%d", i), "192.0.2.1", 25565+i, record.KindJava, "")
	}
	return records
}
