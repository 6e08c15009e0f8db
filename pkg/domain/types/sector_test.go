package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
)

func TestNewSectorTag(t *testing.T) {
	gt.V(t, types.NewSectorTag("  INSAAT ")).Equal(types.SectorTag("insaat"))
	gt.V(t, types.NewSectorTag("Maden")).Equal(types.SectorTag("maden"))
}

func TestSectorTag_Matches(t *testing.T) {
	tag := types.SectorTag("insaat")

	gt.B(t, tag.Matches("insaat")).True()
	gt.B(t, tag.Matches("ins")).True()
	gt.B(t, tag.Matches("saat")).False()
	gt.B(t, tag.Matches("metal")).False()
}

func TestSectorTag_Contains(t *testing.T) {
	tag := types.SectorTag("depolama")

	gt.B(t, tag.Contains("pola")).True()
	gt.B(t, tag.Contains("maden")).False()
}

func TestDefaultSectorVocabulary(t *testing.T) {
	vocab := types.DefaultSectorVocabulary()
	gt.A(t, vocab).Length(16)

	seen := make(map[types.SectorTag]bool)
	for _, tag := range vocab {
		gt.B(t, seen[tag]).Describef("duplicate tag %s", tag).False()
		seen[tag] = true
	}

	gt.B(t, seen[types.UniversalSectorTag]).True()
}
