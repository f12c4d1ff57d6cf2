package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieuld/liftcare/internal/model"
)

func TestHistoryCreate_SequenceAssignedByCount(t *testing.T) {
	env := setupServiceTest(t)
	customer := createTestCustomer(t, env)

	first, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID:          customer.ID,
		Date:                date(t, "2025-03-10"),
		TaskType:            model.TaskTypeMaintenance,
		MaintenanceContents: []string{"Kiểm tra máy kéo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.SequenceNumber)

	second, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-04-10"),
		TaskType:   model.TaskTypeWarranty,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.SequenceNumber)
}

func TestHistoryCreate_SequenceReusedAfterDelete(t *testing.T) {
	env := setupServiceTest(t)
	customer := createTestCustomer(t, env)

	first, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-03-10"),
		TaskType:   model.TaskTypeMaintenance,
	})
	require.NoError(t, err)
	require.NoError(t, env.history.Delete(testCtx(), first.ID))

	// Deleted entries do not count toward the next number.
	next, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-04-10"),
		TaskType:   model.TaskTypeMaintenance,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, next.SequenceNumber)
}

func TestHistoryCreate_Validation(t *testing.T) {
	env := setupServiceTest(t)
	customer := createTestCustomer(t, env)

	_, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		TaskType:   model.TaskTypeMaintenance,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-03-10"),
		TaskType:   model.TaskType("vandalism"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: uuid.New(),
		Date:       date(t, "2025-03-10"),
		TaskType:   model.TaskTypeMaintenance,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryUpdate_Partial(t *testing.T) {
	env := setupServiceTest(t)
	customer := createTestCustomer(t, env)
	contract := createTestContract(t, env, customer.ID, "HD-001")

	entry, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-03-10"),
		TaskType:   model.TaskTypeMaintenance,
		Notes:      "chạy êm",
	})
	require.NoError(t, err)

	other := model.TaskTypeCustomerRequestedRepair
	updated, err := env.history.Update(testCtx(), entry.ID, UpdateHistoryInput{
		ContractID: UUIDPatch{Set: true, Value: &contract.ID},
		TaskType:   &other,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ContractID)
	assert.Equal(t, contract.ID, *updated.ContractID)
	assert.Equal(t, model.TaskTypeCustomerRequestedRepair, updated.TaskType)
	assert.Equal(t, "chạy êm", updated.Notes)
	assert.Equal(t, entry.SequenceNumber, updated.SequenceNumber)
}

func TestHistoryUpdate_NullDetachesContract(t *testing.T) {
	env := setupServiceTest(t)
	customer := createTestCustomer(t, env)
	contract := createTestContract(t, env, customer.ID, "HD-001")

	entry, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		ContractID: &contract.ID,
		Date:       date(t, "2025-03-10"),
		TaskType:   model.TaskTypeMaintenance,
	})
	require.NoError(t, err)

	updated, err := env.history.Update(testCtx(), entry.ID, UpdateHistoryInput{
		ContractID: UUIDPatch{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ContractID)
}

func TestHistoryListByCustomer_SkipsDeleted(t *testing.T) {
	env := setupServiceTest(t)
	customer := createTestCustomer(t, env)

	keep, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-03-10"),
		TaskType:   model.TaskTypeMaintenance,
	})
	require.NoError(t, err)
	gone, err := env.history.Create(testCtx(), CreateHistoryInput{
		CustomerID: customer.ID,
		Date:       date(t, "2025-04-10"),
		TaskType:   model.TaskTypeMaintenance,
	})
	require.NoError(t, err)
	require.NoError(t, env.history.Delete(testCtx(), gone.ID))

	entries, err := env.history.ListByCustomer(testCtx(), customer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)
}
