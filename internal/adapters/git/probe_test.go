package git

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// recordingLogger counts log calls per level.
type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(_ context.Context, msg string, _ map[string]interface{}) {
	l.infos = append(l.infos, msg)
}
func (l *recordingLogger) Debug(_ context.Context, _ string, _ map[string]interface{}) {}
func (l *recordingLogger) Warn(_ context.Context, _ string, _ map[string]interface{})  {}
func (l *recordingLogger) Error(_ context.Context, msg string, _ error, _ map[string]interface{}) {
	l.errors = append(l.errors, msg)
}

// fakeQuery implements domain.RepositoryQuery with canned results keyed by the first arg.
type fakeQuery struct {
	results map[string]*domain.QueryResult
	err     error
	calls   [][]string
	dirs    []string
}

func (f *fakeQuery) Query(_ context.Context, workingDir string, args ...string) (*domain.QueryResult, error) {
	f.calls = append(f.calls, args)
	f.dirs = append(f.dirs, workingDir)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[args[0]], nil
}

func TestCommandProbe_IsDirty(t *testing.T) {
	tests := []struct {
		name      string
		result    *domain.QueryResult
		wantDirty bool
		wantErr   error
	}{
		{
			name:      "no output is clean",
			result:    &domain.QueryResult{},
			wantDirty: false,
		},
		{
			name:      "untracked file is dirty",
			result:    &domain.QueryResult{Stdout: []string{"?? goo"}},
			wantDirty: true,
		},
		{
			name:      "several changes are dirty",
			result:    &domain.QueryResult{Stdout: []string{" M foo", "A  goo"}},
			wantDirty: true,
		},
		{
			name:    "non-zero exit fails",
			result:  &domain.QueryResult{ExitCode: 128, Stderr: []string{"fatal: not a git repository"}},
			wantErr: domain.ErrRepositoryQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &fakeQuery{results: map[string]*domain.QueryResult{"status": tt.result}}
			probe := NewCommandProbe(query, &recordingLogger{})

			dirty, err := probe.IsDirty(context.Background(), "/repo")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDirty, dirty)
			assert.Equal(t, [][]string{{"status", "--short"}}, query.calls)
			assert.Equal(t, []string{"/repo"}, query.dirs)
		})
	}
}

func TestCommandProbe_ShortCommitID(t *testing.T) {
	tests := []struct {
		name    string
		result  *domain.QueryResult
		want    string
		wantErr error
	}{
		{
			name:   "single line",
			result: &domain.QueryResult{Stdout: []string{"abc1234"}},
			want:   "abc1234",
		},
		{
			name:    "no lines",
			result:  &domain.QueryResult{},
			wantErr: domain.ErrUnexpectedOutput,
		},
		{
			name:    "two lines",
			result:  &domain.QueryResult{Stdout: []string{"abc1234", "def5678"}},
			wantErr: domain.ErrUnexpectedOutput,
		},
		{
			name: "unborn HEAD",
			result: &domain.QueryResult{
				ExitCode: 128,
				Stdout:   []string{"HEAD"},
				Stderr:   []string{"fatal: ambiguous argument 'HEAD'"},
			},
			wantErr: domain.ErrRepositoryQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &fakeQuery{results: map[string]*domain.QueryResult{"rev-parse": tt.result}}
			probe := NewCommandProbe(query, &recordingLogger{})

			id, err := probe.ShortCommitID(context.Background(), "/repo")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, [][]string{{"rev-parse", "--short", "HEAD"}}, query.calls)
		})
	}
}

func TestCommandProbe_QueryErrorPropagates(t *testing.T) {
	queryErr := errors.New("exec: no such file")
	probe := NewCommandProbe(&fakeQuery{err: queryErr}, &recordingLogger{})

	_, err := probe.IsDirty(context.Background(), "/repo")
	assert.ErrorIs(t, err, queryErr)

	_, err = probe.ShortCommitID(context.Background(), "/repo")
	assert.ErrorIs(t, err, queryErr)
}

func TestCommandProbe_ExpectedCode(t *testing.T) {
	query := &fakeQuery{results: map[string]*domain.QueryResult{
		"status": {ExitCode: 1, Stdout: []string{" M foo"}},
	}}

	dirty, err := NewCommandProbe(query, &recordingLogger{}, WithExpectedCode(1)).
		IsDirty(context.Background(), "/repo")
	require.NoError(t, err)
	assert.True(t, dirty)

	_, err = NewCommandProbe(query, &recordingLogger{}).IsDirty(context.Background(), "/repo")
	assert.ErrorIs(t, err, domain.ErrRepositoryQuery)
}

func TestCommandProbe_LogsOutputOnFailure(t *testing.T) {
	query := &fakeQuery{results: map[string]*domain.QueryResult{
		"status": {ExitCode: 128, Stdout: []string{"partial"}, Stderr: []string{"fatal: boom"}},
	}}
	log := &recordingLogger{}

	_, err := NewCommandProbe(query, log).IsDirty(context.Background(), "/repo")

	require.Error(t, err)
	assert.Equal(t, []string{"partial"}, log.infos)
	assert.Equal(t, []string{"fatal: boom"}, log.errors)
}

func TestCommandProbe_VerboseOutput(t *testing.T) {
	query := &fakeQuery{results: map[string]*domain.QueryResult{
		"status": {Stdout: []string{"?? goo"}},
	}}

	quiet := &recordingLogger{}
	_, err := NewCommandProbe(query, quiet).IsDirty(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Empty(t, quiet.infos)

	verbose := &recordingLogger{}
	_, err = NewCommandProbe(query, verbose, WithVerboseOutput(true)).IsDirty(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"?? goo"}, verbose.infos)
}
