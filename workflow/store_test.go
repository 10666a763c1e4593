package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testWorkflow(name string) *Workflow {
	return &Workflow{
		Name: name,
		Nodes: []*Node{
			{ID: "s", Type: NodeTypeStart, Config: &StartConfig{}},
			{ID: "e", Type: NodeTypeEnd, Config: &EndConfig{}},
		},
		Edges: []*Edge{{ID: "e1", Source: "s", Target: "e"}},
	}
}

func TestFileStoreSaveAndLoad(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	wf := testWorkflow("render pipeline")
	id, err := store.Save(wf)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.False(t, wf.CreatedAt.IsZero())
	require.False(t, wf.UpdatedAt.IsZero())

	loaded, err := store.Load(id)
	require.NoError(t, err)
	require.Equal(t, "render pipeline", loaded.Name)
	require.Len(t, loaded.Nodes, 2)
	_, ok := loaded.Nodes[0].Config.(*StartConfig)
	require.True(t, ok)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = store.Load("nope")
	require.Error(t, err)
}

func TestFileStoreListSortsByUpdatedAt(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	older := testWorkflow("older")
	older.ID = "w-older"
	_, err = store.Save(older)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	newer := testWorkflow("newer")
	newer.ID = "w-newer"
	_, err = store.Save(newer)
	require.NoError(t, err)

	workflows, err := store.List()
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	require.Equal(t, "newer", workflows[0].Name)
}

func TestFileStoreListSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	_, err = store.Save(testWorkflow("good"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))

	workflows, err := store.List()
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	require.Equal(t, "good", workflows[0].Name)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	id, err := store.Save(testWorkflow("disposable"))
	require.NoError(t, err)

	require.True(t, store.Delete(id))
	require.False(t, store.Delete(id))
	_, err = store.Load(id)
	require.Error(t, err)
}

func TestFileStoreSaveSoonCoalesces(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	wf := testWorkflow("draft")
	wf.ID = "w-draft"
	for i := 0; i < 5; i++ {
		store.SaveSoon(wf)
	}

	require.Eventually(t, func() bool {
		loaded, err := store.Load("w-draft")
		return err == nil && loaded.Name == "draft"
	}, 2*time.Second, 20*time.Millisecond)
}
