package pagination

import (
	"context"
	"errors"
	"math"
	"testing"

	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestToPagedList_FirstAndLastPage(t *testing.T) {
	ctx := context.Background()
	src := FromSlice(seq(25))

	first, err := ToPagedList(ctx, src, 1, 10)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	require.Equal(t, 1, first.Items[0])
	require.EqualValues(t, 25, first.TotalCount)
	require.Equal(t, 3, first.TotalPages)
	require.True(t, first.HasNext)
	require.False(t, first.HasPrevious)

	last, err := ToPagedList(ctx, src, 3, 10)
	require.NoError(t, err)
	require.Equal(t, []int{21, 22, 23, 24, 25}, last.Items)
	require.False(t, last.HasNext)
	require.True(t, last.HasPrevious)
}

func TestToPagedList_ItemCountFormula(t *testing.T) {
	ctx := context.Background()
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		for _, size := range []int{1, 3, 10} {
			for p := 1; p <= 6; p++ {
				page, err := ToPagedList(ctx, FromSlice(seq(n)), p, size)
				require.NoError(t, err)
				want := min(size, max(0, n-(p-1)*size))
				require.Len(t, page.Items, want, "n=%d size=%d page=%d", n, size, p)
				require.Equal(t, (n+size-1)/size, page.TotalPages)
			}
		}
	}
}

func TestToPagedList_BeyondLastPage(t *testing.T) {
	page, err := ToPagedList(context.Background(), FromSlice(seq(5)), 4, 2)
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.NotNil(t, page.Items)
	require.Equal(t, 4, page.CurrentPage)
	require.False(t, page.HasNext)
	require.True(t, page.HasPrevious)
}

func TestToPagedList_EmptySource(t *testing.T) {
	page, err := ToPagedList(context.Background(), FromSlice[int](nil), 1, 10)
	require.NoError(t, err)
	require.Zero(t, page.TotalPages)
	require.False(t, page.HasNext)
	require.False(t, page.HasPrevious)
}

func TestToPagedList_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	_, err := ToPagedList(ctx, FromSlice(seq(3)), 0, 10)
	require.ErrorIs(t, err, ErrInvalidPage)
	_, err = ToPagedList(ctx, FromSlice(seq(3)), 1, 0)
	require.True(t, customErrors.IsInvalidArgument(err))
}

type recordingSource struct {
	n       int64
	offsets []int
}

func (r *recordingSource) Count(context.Context) (int64, error) { return r.n, nil }
func (r *recordingSource) Slice(_ context.Context, offset, _ int) ([]int, error) {
	r.offsets = append(r.offsets, offset)
	return []int{1}, nil
}

func TestToPagedList_HugePageNumber(t *testing.T) {
	ctx := context.Background()

	page, err := ToPagedList(ctx, FromSlice(seq(25)), math.MaxInt, 10)
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, math.MaxInt, page.CurrentPage)
	require.Equal(t, 3, page.TotalPages)
	require.False(t, page.HasNext)

	rec := &recordingSource{n: 25}
	_, err = ToPagedList[int](ctx, rec, math.MaxInt, 10)
	require.NoError(t, err)
	require.Empty(t, rec.offsets, "source must not be sliced past the end")
}

func TestToPagedList_HugePageSize(t *testing.T) {
	page, err := ToPagedList(context.Background(), FromSlice(seq(25)), 1, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, page.Items, 25)
	require.Equal(t, 1, page.TotalPages)
	require.False(t, page.HasNext)
}

func TestFromSlice_RejectsNegativeOffset(t *testing.T) {
	_, err := FromSlice(seq(5)).Slice(context.Background(), -10, 5)
	require.Error(t, err)
}

type failingSource struct{}

func (failingSource) Count(context.Context) (int64, error) { return 0, errors.New("db down") }
func (failingSource) Slice(context.Context, int, int) ([]int, error) {
	return nil, nil
}

func TestToPagedList_SourceErrorIsInternal(t *testing.T) {
	_, err := ToPagedList[int](context.Background(), failingSource{}, 1, 10)
	require.True(t, customErrors.IsInternal(err))
}

func TestMapKeepsMetadata(t *testing.T) {
	page, err := ToPagedList(context.Background(), FromSlice(seq(12)), 2, 5)
	require.NoError(t, err)

	mapped := Map(page, func(i int) string { return string(rune('a' + i)) })
	require.Equal(t, page.Metadata(), mapped.Metadata())
	require.Len(t, mapped.Items, 5)
}

func TestParamsNormalize(t *testing.T) {
	require.Equal(t, Params{PageNumber: 1, PageSize: DefaultPageSize}, Params{}.Normalize())
	require.Equal(t, Params{PageNumber: 1, PageSize: DefaultPageSize}, Params{PageNumber: -3, PageSize: -1}.Normalize())
	require.Equal(t, Params{PageNumber: 2, PageSize: MaxPageSize}, Params{PageNumber: 2, PageSize: 500}.Normalize())
	require.Equal(t, Params{PageNumber: 4, PageSize: 7}, Params{PageNumber: 4, PageSize: 7}.Normalize())
}
