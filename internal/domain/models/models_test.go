package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalPresence(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    struct {
			titleSet     bool
			titlePresent bool
			assigneeSet  bool
			assigneeNull bool
			labelsSet    bool
			labelsLen    int
		}
	}{
		{
			name:    "empty object leaves everything absent",
			payload: `{}`,
		},
		{
			name:    "title only",
			payload: `{"title":"New title"}`,
			want: struct {
				titleSet     bool
				titlePresent bool
				assigneeSet  bool
				assigneeNull bool
				labelsSet    bool
				labelsLen    int
			}{titleSet: true, titlePresent: true},
		},
		{
			name:    "explicit null assignee",
			payload: `{"assignee_id":null}`,
			want: struct {
				titleSet     bool
				titlePresent bool
				assigneeSet  bool
				assigneeNull bool
				labelsSet    bool
				labelsLen    int
			}{assigneeSet: true, assigneeNull: true},
		},
		{
			name:    "empty label set is present",
			payload: `{"taskLabelIds":[]}`,
			want: struct {
				titleSet     bool
				titlePresent bool
				assigneeSet  bool
				assigneeNull bool
				labelsSet    bool
				labelsLen    int
			}{labelsSet: true},
		},
		{
			name:    "null title is set but not present",
			payload: `{"title":null,"taskLabelIds":[1,2]}`,
			want: struct {
				titleSet     bool
				titlePresent bool
				assigneeSet  bool
				assigneeNull bool
				labelsSet    bool
				labelsLen    int
			}{titleSet: true, labelsSet: true, labelsLen: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req TaskUpdateRequest
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &req))

			assert.Equal(t, tt.want.titleSet, req.Title.Set)
			assert.Equal(t, tt.want.titlePresent, req.Title.Present())
			assert.Equal(t, tt.want.assigneeSet, req.AssigneeID.Set)
			assert.Equal(t, tt.want.assigneeNull, req.AssigneeID.Null)
			assert.Equal(t, tt.want.labelsSet, req.TaskLabelIDs.Set)
			assert.Len(t, req.TaskLabelIDs.Value, tt.want.labelsLen)
		})
	}
}

func TestOptionalMarshalOmitsAbsentFields(t *testing.T) {
	req := TaskUpdateRequest{
		Title:      Some("Only title"),
		AssigneeID: Null[int64](),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Only title","assignee_id":null}`, string(data))

	var back TaskUpdateRequest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, req, back)
}

func intPtr(i int) *int { return &i }

func TestValidate(t *testing.T) {
	v := NewValidator()
	empty := ""

	tests := []struct {
		name string
		req  any
		want struct {
			ok     bool
			fields []string
		}
	}{
		{
			name: "valid user create",
			req:  &UserCreateRequest{Email: "jane@example.com", Password: "abc"},
			want: struct {
				ok     bool
				fields []string
			}{ok: true},
		},
		{
			name: "user create with bad email, short password and empty first name",
			req:  &UserCreateRequest{Email: "nope", Password: "ab", FirstName: &empty},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"email", "password", "firstName"}},
		},
		{
			name: "blank task title",
			req:  &TaskCreateRequest{Title: "   ", Status: "draft"},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"title"}},
		},
		{
			name: "task index at 32-bit bounds",
			req:  &TaskCreateRequest{Index: intPtr(math.MaxInt32), Title: "t", Status: "draft"},
			want: struct {
				ok     bool
				fields []string
			}{ok: true},
		},
		{
			name: "task index above 32-bit range",
			req:  &TaskCreateRequest{Index: intPtr(3000000000), Title: "t", Status: "draft"},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"index"}},
		},
		{
			name: "task index below 32-bit range",
			req:  &TaskCreateRequest{Index: intPtr(math.MinInt32 - 1), Title: "t", Status: "draft"},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"index"}},
		},
		{
			name: "present update index above 32-bit range",
			req:  &TaskUpdateRequest{Index: Some(3000000000)},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"index"}},
		},
		{
			name: "null update index is accepted",
			req:  &TaskUpdateRequest{Index: Null[int]()},
			want: struct {
				ok     bool
				fields []string
			}{ok: true},
		},
		{
			name: "label name too short",
			req:  &LabelCreateRequest{Name: "ab"},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"name"}},
		},
		{
			name: "absent update fields are not validated",
			req:  &TaskUpdateRequest{},
			want: struct {
				ok     bool
				fields []string
			}{ok: true},
		},
		{
			name: "present empty update title is rejected",
			req:  &TaskUpdateRequest{Title: Some("")},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"title"}},
		},
		{
			name: "present bad update email is rejected",
			req:  &UserUpdateRequest{Email: Some("not-an-email"), FirstName: Some("Ann")},
			want: struct {
				ok     bool
				fields []string
			}{fields: []string{"email"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(v, tt.req)
			if tt.want.ok {
				assert.NoError(t, err)
				return
			}
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Len(t, fe, len(tt.want.fields))
			for _, f := range tt.want.fields {
				assert.Contains(t, fe, f)
			}
		})
	}
}
