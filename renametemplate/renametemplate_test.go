package renametemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralScenariosFromSpec(t *testing.T) {
	assert.Equal(t, "0", ProcessExpr("{rand 1}", 0))
	assert.Equal(t, "0000", ProcessExpr("{rand 1;fmt=%04d}", 0))
	assert.Equal(t, "2", ProcessExpr("{add 1 1}", 0))
	assert.Equal(t, "1", ProcessExpr("{add 1 {rand 0}}", 0))
	assert.Equal(t, "a", ProcessExpr("{a|b}", 0))
	assert.Equal(t, "b", ProcessExpr("{a|b}", 1))
	assert.Equal(t, "b", ProcessExpr("{a|b;i=1}", 0))
}

func TestLiteralBraceAndPercentEscapes(t *testing.T) {
	assert.Equal(t, "{literal}", ProcessExpr("{{literal}}", 0))
	assert.Equal(t, "100%", ProcessExpr("100%%", 0))
}

func TestPercentFormatAppliesToIndex(t *testing.T) {
	assert.Equal(t, "007", ProcessExpr("%03d", 7))
}

func TestSubDivArithmetic(t *testing.T) {
	assert.Equal(t, "4", ProcessExpr("{sub 10 6}", 0))
	assert.Equal(t, "5", ProcessExpr("{div 10 2}", 0))
	assert.Equal(t, "6", ProcessExpr("{mul 2 3}", 0))
}

func TestMalformedArithmeticFallsBackToRawExpression(t *testing.T) {
	assert.Equal(t, "add 1 notanumber", ProcessExpr("{add 1 notanumber}", 0))
}

func TestIndexTokenUppercaseAndLowercase(t *testing.T) {
	assert.Equal(t, "5", ProcessExpr("{i}", 5))
	assert.Equal(t, "5", ProcessExpr("{I}", 5))
}

func TestPipeDefaultsToIndexModuloPartsForThreeWay(t *testing.T) {
	assert.Equal(t, "x", ProcessExpr("{x|y|z}", 3))
	assert.Equal(t, "y", ProcessExpr("{x|y|z}", 4))
}
