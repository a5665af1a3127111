package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"READER", RoleReader, false},
		{"journalist", RoleJournalist, false},
		{" Editor ", RoleEditor, false},
		{"admin", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.True(t, IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Predicates(t *testing.T) {
	assert.True(t, RoleJournalist.CanAuthor())
	assert.False(t, RoleEditor.CanAuthor())
	assert.True(t, RoleEditor.CanApprove())
	assert.False(t, RoleJournalist.CanApprove())
	assert.True(t, RoleJournalist.CanBeFollowed())
	assert.False(t, RoleReader.CanBeFollowed())
	assert.False(t, RoleEditor.CanBeFollowed())
	assert.True(t, RoleEditor.CanViewDrafts())
	assert.False(t, RoleReader.CanManage())
	assert.Equal(t, "Journalist", RoleJournalist.Label())
}

func TestUser_Validate_DefaultsToReader(t *testing.T) {
	u := &User{Username: "fan"}
	require.NoError(t, u.Validate())
	assert.Equal(t, RoleReader, u.Role)

	u = &User{Username: ""}
	assert.True(t, IsValidation(u.Validate()))

	u = &User{Username: "x", Role: Role("ADMIN")}
	assert.True(t, IsValidation(u.Validate()))
}

func TestValidateFollow(t *testing.T) {
	reader := &User{ID: 1, Username: "reader", Role: RoleReader}
	journalist := &User{ID: 2, Username: "jo", Role: RoleJournalist}
	editor := &User{ID: 3, Username: "ed", Role: RoleEditor}

	assert.NoError(t, ValidateFollow(reader, journalist))
	assert.NoError(t, ValidateFollow(editor, journalist))

	err := ValidateFollow(reader, editor)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "followed", ve.Field)

	assert.True(t, IsValidation(ValidateFollow(journalist, journalist)))
	assert.ErrorIs(t, ValidateFollow(reader, nil), ErrNotFound)
}
