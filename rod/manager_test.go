//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/erldoc"
	"github.com/fwojciec/erldoc/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_RecyclesBrowserAfterMaxPages(t *testing.T) {
	t.Parallel()

	// Create manager that recycles after 3 pages
	manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
	require.NoError(t, err)
	defer manager.Close()

	// Get first browser and record its identity
	firstBrowser, err := manager.Browser()
	require.NoError(t, err)
	require.NotNil(t, firstBrowser)

	// Increment page count 3 times (reaches max)
	manager.IncrementPageCount()
	manager.IncrementPageCount()
	manager.IncrementPageCount()

	// Next Browser() call should recycle and return a different instance
	secondBrowser, err := manager.Browser()
	require.NoError(t, err)
	require.NotNil(t, secondBrowser)

	// The browsers should be different instances (recycled)
	assert.NotSame(t, firstBrowser, secondBrowser)
}

func TestBrowserManager_DoesNotRecycleBeforeMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
	require.NoError(t, err)
	defer manager.Close()

	firstBrowser, err := manager.Browser()
	require.NoError(t, err)
	require.NotNil(t, firstBrowser)

	// Increment page count but stay below max
	manager.IncrementPageCount()
	manager.IncrementPageCount()

	// Should still be the same browser
	sameBrowser, err := manager.Browser()
	require.NoError(t, err)
	assert.Same(t, firstBrowser, sameBrowser)
}

func TestBrowserManager_BrowserAfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	_, err = manager.Browser()

	require.Error(t, err)
	assert.Equal(t, erldoc.EINVALID, erldoc.ErrorCode(err))
	assert.Zero(t, manager.LauncherPID())
}
