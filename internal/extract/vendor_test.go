package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
)

func newTestExtractor() *Extractor {
	return New(lexicon.Default())
}

func textMsg(text string) domain.Message {
	return domain.Message{Text: text}
}

func TestVendor_WeHave(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "Calii Love", e.Vendor(textMsg("We have Calii Love today!")))
}

func TestVendor_ChooseFrom(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "Toben", e.Vendor(textMsg("Choose a bowl from Toben.")))
}

func TestVendor_MultiVendorJoined(t *testing.T) {
	e := newTestExtractor()
	got := e.Vendor(textMsg("We have maker pizza and pi co today"))
	assert.Equal(t, "maker pizza & pi co", got)
}

func TestVendor_CapitalizedSecondVendorStopsCapture(t *testing.T) {
	// "and <Capital>" terminates the capture, so only the first vendor is kept
	e := newTestExtractor()
	assert.Equal(t, "Maker Pizza", e.Vendor(textMsg("We have Maker Pizza and Pi Co today")))
}

func TestVendor_LabeledLinkKeepsLabel(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "Toben", e.Vendor(textMsg("We have <https://toben.ca|Toben> today!")))
}

func TestVendor_BoldMarkupStripped(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "Toben", e.Vendor(textMsg("We have *Toben* today!")))
}

func TestVendor_NoVendor(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, NoVendor, e.Vendor(textMsg("Lunch is here! @toronto")))
}

func TestVendor_EntityUnescaped(t *testing.T) {
	e := newTestExtractor()
	assert.Equal(t, "O&B Catering", e.Vendor(textMsg("Today we have O&amp;B Catering: bowls and salads")))
}

func TestFinishVendor_Idempotent(t *testing.T) {
	once := finishVendor("*Maker Pizza*")
	assert.Equal(t, "Maker Pizza", once)
	assert.Equal(t, once, finishVendor(once))
}

func TestStripLinks(t *testing.T) {
	assert.Equal(t, "menu here", stripLinks("menu <https://example.com> here"))
	assert.Equal(t, "see Toben", stripLinks("see <https://toben.ca|Toben>"))
	assert.Equal(t, "truncated ", stripLinks("truncated <https://example.com/long"))
}
