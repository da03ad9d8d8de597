package postgres_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/artomo/pkg/content"
	artomologger "github.com/papercomputeco/artomo/pkg/logger"
	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/records/postgres"
	testutils "github.com/papercomputeco/artomo/pkg/utils/test"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("ARTOMO_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("ARTOMO_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Driver", func() {
	testutils.RecordStoreBehaviors(func() records.Store {
		ctx := context.Background()

		d, err := postgres.NewDriver(ctx, connStr(), artomologger.Nop())
		Expect(err).NotTo(HaveOccurred())

		// Clean all collections before each test for isolation.
		for _, c := range content.Categories() {
			_, err := d.DeleteMany(ctx, c, records.Filter{})
			Expect(err).NotTo(HaveOccurred())
		}
		return d
	})
})
