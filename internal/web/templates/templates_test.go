package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/cedoromal/persons-admin/internal/person"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonsTableEscapesUserData(t *testing.T) {
	var b strings.Builder
	err := PersonsTable([]person.Person{
		{PersonID: 1, FirstName: `<script>alert("x")</script>`, LastName: "Lovelace"},
	}).Render(context.Background(), &b)
	require.NoError(t, err)

	out := b.String()
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "Lovelace")
}

func TestPersonsTableEmptyState(t *testing.T) {
	var b strings.Builder
	require.NoError(t, PersonsTable(nil).Render(context.Background(), &b))
	assert.Contains(t, b.String(), "Pretty empty here")
}

func TestPersonModalDisablesControlsWhenBusy(t *testing.T) {
	var idle, busy strings.Builder
	p := person.Person{PersonID: 1, FirstName: "Ada"}
	require.NoError(t, PersonModal("Edit Person", p, false).Render(context.Background(), &idle))
	require.NoError(t, PersonModal("Edit Person", p, true).Render(context.Background(), &busy))

	assert.NotContains(t, idle.String(), "disabled")
	assert.Contains(t, busy.String(), "disabled")
}

func TestToasts(t *testing.T) {
	var b strings.Builder
	err := Toasts([]core.Notification{
		{Level: core.LevelSuccess, Message: "Successfully saved Ada"},
		{Level: core.LevelError, Message: "Error while uploading CSV"},
	}).Render(context.Background(), &b)
	require.NoError(t, err)

	out := b.String()
	assert.Contains(t, out, "toast-success")
	assert.Contains(t, out, "toast-error")
	assert.Contains(t, out, "Successfully saved Ada")
}

func TestImportStatusNilAttemptRendersNothing(t *testing.T) {
	var b strings.Builder
	require.NoError(t, ImportStatus(nil).Render(context.Background(), &b))
	assert.Empty(t, b.String())
}

func TestImportStatusFailedAttemptShowsError(t *testing.T) {
	var b strings.Builder
	a := &core.ImportAttempt{File: "people.csv", Phase: core.PhaseFailed, Err: "transfer failed"}
	require.NoError(t, ImportStatus(a).Render(context.Background(), &b))

	out := b.String()
	assert.Contains(t, out, "people.csv")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "transfer failed")
}
