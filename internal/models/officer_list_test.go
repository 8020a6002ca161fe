package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfficerList_DecodesLegacyString(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":123456,"assignedOfficer":"principalOfficer1,  seniorOfficer2 ,"}`), &task)
	require.NoError(t, err)

	assert.Equal(t, OfficerList{"principalOfficer1", "seniorOfficer2"}, task.AssignedOfficers)
}

func TestOfficerList_DecodesArrayAndNull(t *testing.T) {
	var list OfficerList
	require.NoError(t, json.Unmarshal([]byte(`[" a ","b",""]`), &list))
	assert.Equal(t, OfficerList{"a", "b"}, list)

	require.NoError(t, json.Unmarshal([]byte(`null`), &list))
	assert.Empty(t, list)
}

func TestOfficerList_EncodesArray(t *testing.T) {
	data, err := json.Marshal(OfficerList(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = json.Marshal(OfficerList{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(data))
}

func TestOfficerList_AppendDoesNotAlias(t *testing.T) {
	base := make(OfficerList, 1, 4)
	base[0] = "a"

	first := base.Append("b")
	second := base.Append("c")

	assert.Equal(t, OfficerList{"a", "b"}, first)
	assert.Equal(t, OfficerList{"a", "c"}, second)
	assert.Equal(t, OfficerList{"a"}, base.Append("  "))
}

func TestTaskStatus_Valid(t *testing.T) {
	assert.True(t, TaskStatusNotDone.Valid())
	assert.False(t, TaskStatus("Done").Valid())
	assert.True(t, RoleSeniorOfficer.Valid())
	assert.False(t, Role("admin").Valid())
}
