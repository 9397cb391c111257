package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"renttracker/internal/models"
	"renttracker/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB returns a migrated database. TEST_DATABASE_URL points at an
// existing server; otherwise a throwaway postgres container is started.
// The test is skipped under -short or when no container runtime is reachable.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	connString := os.Getenv("TEST_DATABASE_URL")
	terminate := func() {}

	if connString == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		ctr, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("renttracker_test"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("Failed to start postgres container: %v", err)
		}
		terminate = func() {
			if err := testcontainers.TerminateContainer(ctr); err != nil {
				t.Logf("failed to terminate container: %s", err)
			}
		}

		connString, err = ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			terminate()
			t.Fatalf("Failed to read container connection string: %v", err)
		}
	}

	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		terminate()
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Migrate(pool); err != nil {
		pool.Close()
		terminate()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() {
			pool.Close()
			terminate()
		},
	}
}

// Truncate empties every domain table, keeping the seeded roles and permissions.
func (db *TestDB) Truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `TRUNCATE payments, tenants, properties, llcs, audit_logs, user_roles, users`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupTestLLC creates a test LLC for testing
func SetupTestLLC(t *testing.T, db *TestDB, name string) *models.LLC {
	t.Helper()

	llc := &models.LLC{
		ID:           uuid.New(),
		Name:         name,
		CreationDate: time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	query := `INSERT INTO llcs (id, name, creation_date) VALUES ($1, $2, $3)`
	if _, err := db.Pool.Exec(context.Background(), query, llc.ID, llc.Name, llc.CreationDate); err != nil {
		t.Fatalf("Failed to create test llc: %v", err)
	}
	return llc
}

// SetupTestProperty creates a test property owned by llc
func SetupTestProperty(t *testing.T, db *TestDB, llc *models.LLC, streetNumber string) *models.Property {
	t.Helper()

	p := models.NewProperty()
	p.ID = uuid.New()
	p.LLCID = llc.ID
	p.LLCName = llc.Name
	p.StreetNumber = streetNumber
	p.StreetName = "Test Street"

	query := `
		INSERT INTO properties (id, llc_id, street_number, street_name, status, bedrooms, bathrooms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Pool.Exec(context.Background(), query, p.ID, p.LLCID, p.StreetNumber, p.StreetName, p.Status, p.Bedrooms, p.Bathrooms)
	if err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}
	return p
}

// SetupTestTenant creates a test tenant, placed in property when it is not nil
func SetupTestTenant(t *testing.T, db *TestDB, property *models.Property) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{ID: uuid.New(), FirstName: "Test", LastName: "Tenant"}
	if property != nil {
		tenant.PropertyID = &property.ID
	}

	query := `INSERT INTO tenants (id, first_name, last_name, property_id) VALUES ($1, $2, $3, $4)`
	if _, err := db.Pool.Exec(context.Background(), query, tenant.ID, tenant.FirstName, tenant.LastName, tenant.PropertyID); err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}
	return tenant
}

// SetupTestPayment records a payment by tenant for property
func SetupTestPayment(t *testing.T, db *TestDB, tenant *models.Tenant, property *models.Property, amount string) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		PropertyID:  property.ID,
		PaymentDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString(amount),
	}
	query := `INSERT INTO payments (id, tenant_id, property_id, payment_date, amount) VALUES ($1, $2, $3, $4, $5)`
	_, err := db.Pool.Exec(context.Background(), query, payment.ID, payment.TenantID, payment.PropertyID, payment.PaymentDate, payment.Amount)
	if err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}
	return payment
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *TestDB, table string) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
