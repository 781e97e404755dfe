// Package querytest connects repository suites to a test database
package querytest

import (
	"os"
	"testing"

	"github.com/x-xyz/marketplace/base/database/mongoclient"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/service/query"
)

const dbName = "marketplace_test"

// New returns a query.Mongo on MONGO_URI, the test is skipped when it is not set
func New(t *testing.T) query.Mongo {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client := mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:        uri,
		AuthDBName: "admin",
		DBName:     dbName,
	})
	return query.New(client, metrics.NewNop(), false)
}
