package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	p := Default()

	assert.True(t, p.Accepts(LabelDress))
	assert.False(t, p.Accepts("sleeve"))
	assert.Len(t, p.Labels(), 19)
	assert.Equal(t, 5, p.Priority(LabelCoat))
	assert.Equal(t, 4, p.Priority(LabelPants))
	assert.Equal(t, 0, p.Priority("unknown"))
}

func TestGroups(t *testing.T) {
	p := Default()

	assert.True(t, p.In(GroupOuterwear, LabelDress))
	assert.True(t, p.In(GroupAccessories, LabelBag))
	assert.True(t, p.In(GroupUpperBody, LabelCardigan))
	assert.True(t, p.In(GroupLowerBody, LabelSkirt))
	assert.False(t, p.In(GroupUpperBody, LabelCoat))
	assert.True(t, p.In(GroupCoatLike, LabelJacket))
	assert.False(t, p.In(GroupCoatLike, LabelDress))
}

func TestWithCopiesDoNotLeak(t *testing.T) {
	base := Default()
	mod := base.WithPriority(LabelScarf, 9).WithGroup(GroupAccessories, LabelScarf)

	assert.Equal(t, 1, base.Priority(LabelScarf))
	assert.False(t, base.In(GroupAccessories, LabelScarf))
	assert.Equal(t, 9, mod.Priority(LabelScarf))
	assert.True(t, mod.In(GroupAccessories, LabelScarf))
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := Default()
	order := p.CategoryOrder()
	order[0] = "mutated"

	assert.Equal(t, CategoryBottoms, p.CategoryOrder()[0])
}

func TestMergeThresholds(t *testing.T) {
	p := Default()
	assert.Equal(t, MergeThresholds{IoU: 0.35, Overlap: 0.60, CenterDistFraction: 0.30}, p.MergeThresholds())

	q := p.WithMergeThresholds(MergeThresholds{IoU: 0.9, Overlap: 0.9, CenterDistFraction: 0})
	assert.Equal(t, 0.35, p.MergeThresholds().IoU)
	assert.Equal(t, 0.9, q.MergeThresholds().IoU)
}

func TestRelevanceHintsSorted(t *testing.T) {
	hints := Default().RelevanceHints()

	require.NotEmpty(t, hints.BannedTerms)
	assert.IsIncreasing(t, hints.BannedTerms)
	assert.Equal(t, []string{"blazer", "jacket"}, hints.CategoryKeywords[LabelJacket])
}
