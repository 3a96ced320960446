package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
	"github.com/TalelKhemiri/GoCodeMobile/internal/quiz"
)

func TestLoadRegistry(t *testing.T) {
	tests := map[string]struct {
		data    string
		wantErr string
	}{
		"valid module": {
			data: `[{"id":"m1","title":"T","icon":"BookOpen","questions":[
				{"id":1,"question":"?","options":["a","b"],"correctAnswer":1,"explanation":"e"}]}]`,
		},
		"unknown icon fails fast": {
			data: `[{"id":"m1","title":"T","icon":"Sparkles","questions":[
				{"id":1,"question":"?","options":["a","b"],"correctAnswer":0,"explanation":"e"}]}]`,
			wantErr: "unknown icon",
		},
		"correctAnswer out of range": {
			data: `[{"id":"m1","title":"T","icon":"BookOpen","questions":[
				{"id":1,"question":"?","options":["a","b"],"correctAnswer":2,"explanation":"e"}]}]`,
			wantErr: "out of range",
		},
		"single option rejected": {
			data: `[{"id":"m1","title":"T","icon":"BookOpen","questions":[
				{"id":1,"question":"?","options":["a"],"correctAnswer":0,"explanation":"e"}]}]`,
			wantErr: "at least 2 options",
		},
		"duplicate module id": {
			data: `[
				{"id":"m1","title":"T","icon":"BookOpen","questions":[{"id":1,"question":"?","options":["a","b"],"correctAnswer":0,"explanation":"e"}]},
				{"id":"m1","title":"T2","icon":"HeartPulse","questions":[{"id":2,"question":"?","options":["a","b"],"correctAnswer":0,"explanation":"e"}]}]`,
			wantErr: "duplicate id",
		},
		"module without questions": {
			data:    `[{"id":"m1","title":"T","icon":"BookOpen","questions":[]}]`,
			wantErr: "no questions",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := quiz.LoadRegistry([]byte(tt.data))
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := quiz.Default()
	require.NotEmpty(t, reg.Modules(), "bundled dataset should carry modules")

	m, err := reg.Module("priority")
	require.NoError(t, err)
	require.Equal(t, quiz.IconArrowLeftRight, m.Icon)
	require.NotEmpty(t, m.Questions)
}

func TestRegistry_ModuleNotFound(t *testing.T) {
	t.Parallel()

	_, err := quiz.Default().Module("does-not-exist")
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}
