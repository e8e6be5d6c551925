package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
)

func TestNavigationTree_WeightOrdering(t *testing.T) {
	reg, err := Load([]RawPage{
		menuPage("/v2.0/", "InfluxDB v2.0", "v2_0", "InfluxDB v2.0", "", 1),
		menuPage("/v2.0/c/", "C", "v2_0", "C", "InfluxDB v2.0", 300),
		menuPage("/v2.0/a/", "A", "v2_0", "A", "InfluxDB v2.0", 100),
		menuPage("/v2.0/b/", "B", "v2_0", "B", "InfluxDB v2.0", 200),
	}, Options{Strict: true})
	require.NoError(t, err)

	roots := reg.NavigationTree("v2_0")
	require.Len(t, roots, 1)

	children := roots[0].Children
	require.Len(t, children, 3)
	require.Equal(t, []int{100, 200, 300}, []int{children[0].Weight, children[1].Weight, children[2].Weight})
	require.Equal(t, "/v2.0/a/", children[0].Page.Path)
	require.Equal(t, "/v2.0/b/", children[1].Page.Path)
	require.Equal(t, "/v2.0/c/", children[2].Page.Path)
}

func TestNavigationTree_WeightTiesBreakOnTitleThenPath(t *testing.T) {
	reg, err := Load([]RawPage{
		menuPage("/v2.0/zeta/", "zeta", "v2_0", "zeta", "", 10),
		menuPage("/v2.0/alpha/", "Alpha", "v2_0", "Alpha", "", 10),
		menuPage("/v2.0/beta/", "beta", "v2_0", "beta", "", 10),
	}, Options{Strict: true})
	require.NoError(t, err)

	roots := reg.NavigationTree("v2_0")
	require.Len(t, roots, 3)
	// Case-folded title ordering: Alpha < beta < zeta.
	require.Equal(t, "/v2.0/alpha/", roots[0].Page.Path)
	require.Equal(t, "/v2.0/beta/", roots[1].Page.Path)
	require.Equal(t, "/v2.0/zeta/", roots[2].Page.Path)
}

func TestNavigationTree_Deterministic(t *testing.T) {
	records := []RawPage{
		menuPage("/v2.0/", "Root", "v2_0", "Root", "", 1),
		menuPage("/v2.0/x/", "X", "v2_0", "X", "Root", 5),
		menuPage("/v2.0/y/", "Y", "v2_0", "Y", "Root", 5),
		menuPage("/v2.0/z/", "Z", "v2_0", "Z", "X", 1),
	}

	flatten := func(reg *Registry) []string {
		var out []string
		for node := range reg.Walk("v2_0") {
			out = append(out, node.Page.Path)
		}
		return out
	}

	first, err := Load(records, Options{Strict: true})
	require.NoError(t, err)
	want := flatten(first)

	for range 5 {
		reg, err := Load(records, Options{Strict: true})
		require.NoError(t, err)
		require.Equal(t, want, flatten(reg))
	}
}

func TestNavigationTree_ParentCycle_FailsLoad(t *testing.T) {
	_, err := Load([]RawPage{
		menuPage("/v2.0/a/", "A", "v2_0", "A", "B", 1),
		menuPage("/v2.0/b/", "B", "v2_0", "B", "A", 2),
	}, Options{Strict: true})

	require.Error(t, err)
	require.True(t, derrors.IsValidation(err))
	require.Contains(t, err.Error(), "cycle")
}

func TestNavigationTree_SelfParent_FailsLoad(t *testing.T) {
	_, err := Load([]RawPage{
		menuPage("/v2.0/a/", "A", "v2_0", "A", "A", 1),
	}, Options{Strict: true})

	require.Error(t, err)
	require.True(t, derrors.IsValidation(err))
}

func TestNavigationTree_ThreeMemberCycle_FailsLoad(t *testing.T) {
	_, err := Load([]RawPage{
		menuPage("/v2.0/a/", "A", "v2_0", "A", "C", 1),
		menuPage("/v2.0/b/", "B", "v2_0", "B", "A", 1),
		menuPage("/v2.0/c/", "C", "v2_0", "C", "B", 1),
	}, Options{Strict: true})

	require.Error(t, err)
	require.True(t, derrors.IsValidation(err))
}

func TestNavigationTree_NamespacesAreIndependent(t *testing.T) {
	reg, err := Load([]RawPage{
		menuPage("/v2.0/a/", "A", "v2_0", "A", "", 1),
		menuPage("/v1.8/a/", "A", "v1_8", "A", "", 1),
	}, Options{Strict: true})
	require.NoError(t, err)

	require.Equal(t, []string{"v1_8", "v2_0"}, reg.Namespaces())
	require.Len(t, reg.NavigationTree("v2_0"), 1)
	require.Len(t, reg.NavigationTree("v1_8"), 1)
	require.Empty(t, reg.NavigationTree("v0_9"))
}

func TestWalk_DepthFirstPreOrder(t *testing.T) {
	reg, err := Load([]RawPage{
		menuPage("/v2.0/", "Root", "v2_0", "Root", "", 1),
		menuPage("/v2.0/a/", "A", "v2_0", "A", "Root", 1),
		menuPage("/v2.0/a/x/", "X", "v2_0", "X", "A", 1),
		menuPage("/v2.0/b/", "B", "v2_0", "B", "Root", 2),
	}, Options{Strict: true})
	require.NoError(t, err)

	var got []string
	for node := range reg.Walk("v2_0") {
		got = append(got, node.Page.Path)
	}
	require.Equal(t, []string{"/v2.0/", "/v2.0/a/", "/v2.0/a/x/", "/v2.0/b/"}, got)
}

func TestWalk_Restartable(t *testing.T) {
	reg, err := Load([]RawPage{
		menuPage("/v2.0/a/", "A", "v2_0", "A", "", 1),
		menuPage("/v2.0/b/", "B", "v2_0", "B", "", 2),
	}, Options{Strict: true})
	require.NoError(t, err)

	seq := reg.Walk("v2_0")

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	require.Equal(t, 2, count())
	require.Equal(t, 2, count())

	// Early break must not poison later iterations.
	for range seq {
		break
	}
	require.Equal(t, 2, count())
}

func TestWalk_ConcurrentReaders(t *testing.T) {
	reg, err := Load([]RawPage{
		menuPage("/v2.0/", "Root", "v2_0", "Root", "", 1),
		menuPage("/v2.0/a/", "A", "v2_0", "A", "Root", 1),
	}, Options{Strict: true})
	require.NoError(t, err)

	done := make(chan int, 8)
	for range 8 {
		go func() {
			n := 0
			for range reg.Walk("v2_0") {
				n++
			}
			done <- n
		}()
	}
	for range 8 {
		require.Equal(t, 2, <-done)
	}
}
