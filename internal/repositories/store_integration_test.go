package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"renttracker/internal/models"
	"renttracker/internal/repositories"
	"renttracker/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreIntegrationSuite struct {
	suite.Suite
	db    *testhelpers.TestDB
	store repositories.Store
	ctx   context.Context
}

func TestStoreIntegrationSuite(t *testing.T) {
	suite.Run(t, new(StoreIntegrationSuite))
}

func (s *StoreIntegrationSuite) SetupSuite() {
	s.db = testhelpers.SetupTestDB(s.T())
	s.store = repositories.NewStore(s.db.Pool)
	s.ctx = context.Background()
}

func (s *StoreIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Cleanup()
	}
}

func (s *StoreIntegrationSuite) SetupTest() {
	s.db.Truncate(s.T())
}

func requireConstraint(t *testing.T, err error) *repositories.ConstraintError {
	t.Helper()
	var constraintErr *repositories.ConstraintError
	require.True(t, errors.As(err, &constraintErr), "expected constraint error, got %v", err)
	return constraintErr
}

func (s *StoreIntegrationSuite) TestDeleteLLCWithPropertyIsRefused() {
	llc := testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")
	testhelpers.SetupTestProperty(s.T(), s.db, llc, "12")

	err := s.store.LLCs().Delete(s.ctx, llc.ID)

	assert.True(s.T(), requireConstraint(s.T(), err).IsForeignKey())
	assert.Equal(s.T(), 1, testhelpers.CountRows(s.T(), s.db, "llcs"))
	assert.Equal(s.T(), 1, testhelpers.CountRows(s.T(), s.db, "properties"))
}

func (s *StoreIntegrationSuite) TestDeletePropertyWithPaymentIsRefused() {
	llc := testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")
	property := testhelpers.SetupTestProperty(s.T(), s.db, llc, "12")
	tenant := testhelpers.SetupTestTenant(s.T(), s.db, nil)
	testhelpers.SetupTestPayment(s.T(), s.db, tenant, property, "100.00")

	err := s.store.Properties().Delete(s.ctx, property.ID)

	assert.True(s.T(), requireConstraint(s.T(), err).IsForeignKey())
	assert.Equal(s.T(), 1, testhelpers.CountRows(s.T(), s.db, "properties"))
}

func (s *StoreIntegrationSuite) TestDeletePropertyNullsTenantReference() {
	llc := testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")
	property := testhelpers.SetupTestProperty(s.T(), s.db, llc, "12")
	tenant := testhelpers.SetupTestTenant(s.T(), s.db, property)

	require.NoError(s.T(), s.store.Properties().Delete(s.ctx, property.ID))

	reloaded, err := s.store.Tenants().GetByID(s.ctx, tenant.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), reloaded.PropertyID)
	assert.Nil(s.T(), reloaded.PropertyAddress)
}

func (s *StoreIntegrationSuite) TestDeleteBareProperty() {
	llc := testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")
	property := testhelpers.SetupTestProperty(s.T(), s.db, llc, "12")

	require.NoError(s.T(), s.store.Properties().Delete(s.ctx, property.ID))

	_, err := s.store.Properties().GetByID(s.ctx, property.ID)
	assert.ErrorIs(s.T(), err, repositories.ErrNotFound)
}

func (s *StoreIntegrationSuite) TestPaymentAmountBounds() {
	llc := testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")
	property := testhelpers.SetupTestProperty(s.T(), s.db, llc, "12")
	tenant := testhelpers.SetupTestTenant(s.T(), s.db, property)

	newPayment := func(amount string) *models.Payment {
		return &models.Payment{
			ID:          uuid.New(),
			TenantID:    tenant.ID,
			PropertyID:  property.ID,
			PaymentDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString(amount),
		}
	}

	for _, amount := range []string{"0", "-5.00"} {
		err := s.store.Payments().Create(s.ctx, newPayment(amount))
		assert.True(s.T(), requireConstraint(s.T(), err).IsCheck(), "amount %s", amount)
	}

	ok := newPayment("0.01")
	require.NoError(s.T(), s.store.Payments().Create(s.ctx, ok))

	stored, err := s.store.Payments().GetByID(s.ctx, ok.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.Amount.Equal(decimal.RequireFromString("0.01")))
	assert.Equal(s.T(), "Test Tenant", stored.TenantName)
}

func (s *StoreIntegrationSuite) TestVINUniqueWhenPresent() {
	llc := testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")

	newProperty := func(number string, vin *string) *models.Property {
		p := models.NewProperty()
		p.ID = uuid.New()
		p.LLCID = llc.ID
		p.StreetNumber = number
		p.StreetName = "Lot Road"
		p.VIN = vin
		return p
	}

	vin := "1HGCM82633A004352"
	require.NoError(s.T(), s.store.Properties().Create(s.ctx, newProperty("1", &vin)))

	err := s.store.Properties().Create(s.ctx, newProperty("2", &vin))
	constraintErr := requireConstraint(s.T(), err)
	assert.True(s.T(), constraintErr.IsUnique())
	assert.Equal(s.T(), "properties_vin_key", constraintErr.Constraint)

	require.NoError(s.T(), s.store.Properties().Create(s.ctx, newProperty("3", nil)))
	require.NoError(s.T(), s.store.Properties().Create(s.ctx, newProperty("4", nil)))
}

func (s *StoreIntegrationSuite) TestDuplicateLLCName() {
	testhelpers.SetupTestLLC(s.T(), s.db, "Acme Holdings")

	err := s.store.LLCs().Create(s.ctx, &models.LLC{ID: uuid.New(), Name: "Acme Holdings", CreationDate: time.Now()})
	assert.Equal(s.T(), "llcs_name_key", requireConstraint(s.T(), err).Constraint)
}

func (s *StoreIntegrationSuite) TestPropertyOrdering() {
	beta := testhelpers.SetupTestLLC(s.T(), s.db, "Beta LLC")
	alpha := testhelpers.SetupTestLLC(s.T(), s.db, "Alpha LLC")
	testhelpers.SetupTestProperty(s.T(), s.db, beta, "1")
	testhelpers.SetupTestProperty(s.T(), s.db, alpha, "2")
	testhelpers.SetupTestProperty(s.T(), s.db, alpha, "1")

	properties, err := s.store.Properties().List(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), properties, 3)

	got := []string{properties[0].String(), properties[1].String(), properties[2].String()}
	assert.Equal(s.T(), []string{
		"1 Test Street (Alpha LLC)",
		"2 Test Street (Alpha LLC)",
		"1 Test Street (Beta LLC)",
	}, got)
}

func (s *StoreIntegrationSuite) TestWithTxRollsBack() {
	llc := &models.LLC{ID: uuid.New(), Name: "Temp LLC", CreationDate: time.Now()}

	err := s.store.WithTx(s.ctx, func(tx repositories.Store) error {
		if err := tx.LLCs().Create(s.ctx, llc); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(s.T(), err)
	assert.Equal(s.T(), 0, testhelpers.CountRows(s.T(), s.db, "llcs"))
}
