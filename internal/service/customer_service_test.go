package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCreate_RequiresNameAndAddress(t *testing.T) {
	env := setupServiceTest(t)

	_, err := env.customers.Create(testCtx(), CreateCustomerInput{Address: "12 Lê Lợi"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.customers.Create(testCtx(), CreateCustomerInput{CustomerName: "Anh Minh"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerCreate_WarrantyBeforeAcceptanceRejected(t *testing.T) {
	env := setupServiceTest(t)

	_, err := env.customers.Create(testCtx(), CreateCustomerInput{
		CustomerName:           "Anh Minh",
		Address:                "12 Lê Lợi",
		AcceptanceSigningDate:  datePtr(t, "2025-06-01"),
		WarrantyExpirationDate: datePtr(t, "2025-05-01"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerCreate_AutoWarrantyContract(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{
		CustomerName:           "Anh Minh",
		CompanyName:            "Cty TNHH Minh Phát",
		Address:                "12 Lê Lợi",
		AcceptanceSigningDate:  datePtr(t, "2025-01-15"),
		WarrantyExpirationDate: datePtr(t, "2026-01-15"),
		Notes:                  "lắp 2 thang",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, customer.ID)
	assert.Equal(t, []string{"lắp 2 thang"}, []string(customer.Notes))

	detail, err := env.customers.GetByID(testCtx(), customer.ID)
	require.NoError(t, err)
	require.Len(t, detail.MaintenanceContracts, 1)

	warranty := detail.MaintenanceContracts[0]
	assert.True(t, warranty.WarrantyOnly)
	assert.Nil(t, warranty.ContractNumber)
	assert.True(t, warranty.StartDate.Equal(date(t, "2025-01-15")))
	assert.True(t, warranty.EndDate.Equal(date(t, "2026-01-15")))
}

func TestCustomerCreate_NoWarrantyContractWithoutBothDates(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{
		CustomerName:          "Anh Minh",
		Address:               "12 Lê Lợi",
		AcceptanceSigningDate: datePtr(t, "2025-01-15"),
	})
	require.NoError(t, err)

	detail, err := env.customers.GetByID(testCtx(), customer.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.MaintenanceContracts)
}

func TestCustomerUpdate_PartialFieldsOnly(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{
		CustomerName:        "Anh Minh",
		CompanyName:         "Cty TNHH Minh Phát",
		Address:             "12 Lê Lợi",
		ContractSigningDate: datePtr(t, "2025-01-01"),
	})
	require.NoError(t, err)

	name := "Chị Hoa"
	updated, err := env.customers.Update(testCtx(), customer.ID, UpdateCustomerInput{
		CustomerName: StringPatch{Set: true, Value: &name},
	})
	require.NoError(t, err)
	assert.Equal(t, "Chị Hoa", updated.CustomerName)
	assert.Equal(t, "Cty TNHH Minh Phát", updated.CompanyName)
	require.NotNil(t, updated.ContractSigningDate)
}

func TestCustomerUpdate_NullClearsDate(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{
		CustomerName:        "Anh Minh",
		Address:             "12 Lê Lợi",
		ContractSigningDate: datePtr(t, "2025-01-01"),
	})
	require.NoError(t, err)

	updated, err := env.customers.Update(testCtx(), customer.ID, UpdateCustomerInput{
		ContractSigningDate: DatePatch{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ContractSigningDate)
}

func TestCustomerUpdate_EmptyNameRejected(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{
		CustomerName: "Anh Minh",
		Address:      "12 Lê Lợi",
	})
	require.NoError(t, err)

	blank := "  "
	_, err = env.customers.Update(testCtx(), customer.ID, UpdateCustomerInput{
		CustomerName: StringPatch{Set: true, Value: &blank},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCustomerUpdate_NotFound(t *testing.T) {
	env := setupServiceTest(t)

	name := "Anh Minh"
	_, err := env.customers.Update(testCtx(), uuid.New(), UpdateCustomerInput{
		CustomerName: StringPatch{Set: true, Value: &name},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerList_ExcludesDeleted(t *testing.T) {
	env := setupServiceTest(t)

	keep, err := env.customers.Create(testCtx(), CreateCustomerInput{CustomerName: "Anh Minh", Address: "12 Lê Lợi"})
	require.NoError(t, err)
	gone, err := env.customers.Create(testCtx(), CreateCustomerInput{CustomerName: "Chị Hoa", Address: "5 Trần Phú"})
	require.NoError(t, err)

	require.NoError(t, env.customers.Delete(testCtx(), gone.ID))

	list, err := env.customers.List(testCtx())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestCustomerDelete_CascadesToActiveContracts(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{CustomerName: "Anh Minh", Address: "12 Lê Lợi"})
	require.NoError(t, err)

	contract, err := env.contracts.Create(testCtx(), CreateContractInput{
		CustomerID:     customer.ID,
		ContractNumber: "HD-2025-001",
		StartDate:      date(t, "2025-01-01"),
		EndDate:        date(t, "2025-12-31"),
		EquipmentItems: []EquipmentItemInput{{Weight: decimal.NewFromInt(450), NumberOfStops: 5, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, env.customers.Delete(testCtx(), customer.ID))

	_, err = env.customers.GetByID(testCtx(), customer.ID)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := env.contracts.Get(testCtx(), contract.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedByParent)
	assert.Equal(t, customer.ID, *got.DeletedByParent)
}

func TestCustomerDelete_AlreadyDeletedNotFound(t *testing.T) {
	env := setupServiceTest(t)

	customer, err := env.customers.Create(testCtx(), CreateCustomerInput{CustomerName: "Anh Minh", Address: "12 Lê Lợi"})
	require.NoError(t, err)

	require.NoError(t, env.customers.Delete(testCtx(), customer.ID))
	require.ErrorIs(t, env.customers.Delete(testCtx(), customer.ID), ErrNotFound)
}
