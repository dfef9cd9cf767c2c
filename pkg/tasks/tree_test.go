package tasks_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/bootstrap/pkg/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTreeStartsRoot(t *testing.T) {
	tree := tasks.NewTree("")
	assert.Equal(t, tasks.DefaultRootName, tree.Root().Name)
	assert.Equal(t, tasks.StateRunning, tree.Root().State)
}

func TestTreeEmptyPercentIsZero(t *testing.T) {
	tree := tasks.NewTree("Bootstrap")

	assert.Equal(t, 0, tree.PercentComplete())
	assert.Equal(t, 0, tree.CompletedTasks())
	assert.Empty(t, tree.Sections())
}

func TestTreeSectionsAndPercent(t *testing.T) {
	tree := tasks.NewTree("Bootstrap")
	formulae := tree.AddSection("Install Formulae", nil)
	casks := tree.AddSection("Install Casks", nil)
	git := tree.AddTask("git", formulae)
	tree.AddTask("node", formulae)
	tree.AddTask("zsh", formulae)

	assert.Equal(t, []*tasks.Task{formulae, casks}, tree.Sections())
	assert.Equal(t, 4, tree.TotalTasks(), "three formulae plus the empty casks section")

	ok := tree.UpdateTask(git.ID, func(task *tasks.Task) {
		_ = task.Start()
		_ = task.Complete(true, "")
	})
	require.True(t, ok)
	assert.Equal(t, 1, tree.CompletedTasks())
	assert.Equal(t, 25, tree.PercentComplete())

	assert.False(t, tree.UpdateTask("missing", func(*tasks.Task) {}))
	assert.Same(t, git, tree.FindTask(git.ID))
}

func TestTreePercentRounds(t *testing.T) {
	tree := tasks.NewTree("Bootstrap")
	var all []*tasks.Task
	for i := 0; i < 3; i++ {
		all = append(all, tree.AddTask(fmt.Sprintf("t%d", i), nil))
	}
	_ = all[0].Skip()
	assert.Equal(t, 33, tree.PercentComplete())
	_ = all[1].Skip()
	assert.Equal(t, 67, tree.PercentComplete())
	_ = all[2].Skip()
	assert.Equal(t, 100, tree.PercentComplete())
}

func TestTxnFindChildOnlyPending(t *testing.T) {
	tree := tasks.NewTree("Bootstrap")
	section := tree.AddSection("Prerequisites", nil)
	brew := tree.AddTask("Install homebrew", section)

	tree.Update(func(x tasks.Txn) {
		assert.Same(t, brew, x.FindChild(section, "Install homebrew"))
		assert.Same(t, section, x.FindChild(nil, "Prerequisites"))
		_ = brew.Start()
		assert.Nil(t, x.FindChild(section, "Install homebrew"))
	})
}

func TestTreeConcurrentAdds(t *testing.T) {
	tree := tasks.NewTree("Bootstrap")
	section := tree.AddSection("Load", nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task := tree.AddTask(fmt.Sprintf("t%d", i), section)
			tree.UpdateTask(task.ID, func(task *tasks.Task) { _ = task.Start() })
			_ = tree.Snapshot(nil)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, tree.TotalTasks())
}

func TestSnapshotCopiesState(t *testing.T) {
	tree := tasks.NewTree("Bootstrap")
	stats := tasks.NewStats()
	section := tree.AddSection("Install Formulae", nil)
	git := tree.AddTask("git", section)
	tree.Update(func(tasks.Txn) {
		_ = section.Start()
		_ = git.Start()
		git.Metadata.Message = "pouring bottle"
	})
	stats.IncSuccess()

	snap := tree.Snapshot(stats)
	tree.Update(func(tasks.Txn) { _ = git.Complete(false, "late") })

	require.Len(t, snap.Sections(), 1)
	child := snap.Sections()[0].Children[0]
	assert.Equal(t, tasks.StateRunning, child.State, "snapshot must not follow later mutation")
	assert.Equal(t, "pouring bottle", child.Message)
	assert.Equal(t, 1, snap.TotalTasks())
	assert.Equal(t, 0, snap.CompletedTasks())
	assert.Equal(t, 1, snap.SuccessCount)
	assert.Equal(t, "Bootstrap", snap.Title())
	assert.GreaterOrEqual(t, snap.Elapsed(), time.Duration(0))
}
