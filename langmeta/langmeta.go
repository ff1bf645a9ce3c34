// Package langmeta provides a language metadata registry (native names
// and emoji flags) used in CLI progress output when processing locale
// dataset files.
package langmeta

import "strings"

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

// Registry contains canonical language metadata.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"af":    {Name: "Afrikaans", Flag: "ðŸ‡¿ðŸ‡¦"},
	"am":    {Name: "áŠ áˆ›áˆ­áŠ›", Flag: "ðŸ‡ªðŸ‡¹"},
	"ar":    {Name: "Ø§Ù„Ø¹Ø±Ø¨ÙŠØ©", Flag: "ðŸ‡¸ðŸ‡¦"},
	"ar-EG": {Name: "Ø§Ù„Ø¹Ø±Ø¨ÙŠØ© (Ù…ØµØ±)", Flag: "ðŸ‡ªðŸ‡¬"},
	"az":    {Name: "AzÉ™rbaycanca", Flag: "ðŸ‡¦ðŸ‡¿"},
	"be":    {Name: "Ð‘ÐµÐ»Ð°Ñ€ÑƒÑÐºÐ°Ñ", Flag: "ðŸ‡§ðŸ‡¾"},
	"bg":    {Name: "Ð‘ÑŠÐ»Ð³Ð°Ñ€ÑÐºÐ¸", Flag: "ðŸ‡§ðŸ‡¬"},
	"bn":    {Name: "à¦¬à¦¾à¦‚à¦²à¦¾", Flag: "ðŸ‡§ðŸ‡©"},
	"bs":    {Name: "Bosanski", Flag: "ðŸ‡§ðŸ‡¦"},
	"ca":    {Name: "CatalÃ ", Flag: "ðŸ‡ªðŸ‡¸"},
	"cs":    {Name: "ÄŒeÅ¡tina", Flag: "ðŸ‡¨ðŸ‡¿"},
	"cy":    {Name: "Cymraeg", Flag: "ðŸ‡¬ðŸ‡§"},
	"da":    {Name: "Dansk", Flag: "ðŸ‡©ðŸ‡°"},
	"de":    {Name: "Deutsch", Flag: "ðŸ‡©ðŸ‡ª"},
	"de-AT": {Name: "Deutsch (Ã–sterreich)", Flag: "ðŸ‡¦ðŸ‡¹"},
	"de-CH": {Name: "Deutsch (Schweiz)", Flag: "ðŸ‡¨ðŸ‡­"},
	"el":    {Name: "Î•Î»Î»Î·Î½Î¹ÎºÎ¬", Flag: "ðŸ‡¬ðŸ‡·"},
	"en":    {Name: "English", Flag: "ðŸ‡ºðŸ‡¸"},
	"en-AU": {Name: "English (Australia)", Flag: "ðŸ‡¦ðŸ‡º"},
	"en-CA": {Name: "English (Canada)", Flag: "ðŸ‡¨ðŸ‡¦"},
	"en-GB": {Name: "English (UK)", Flag: "ðŸ‡¬ðŸ‡§"},
	"en-IN": {Name: "English (India)", Flag: "ðŸ‡®ðŸ‡³"},
	"en-US": {Name: "English (US)", Flag: "ðŸ‡ºðŸ‡¸"},
	"es":    {Name: "EspaÃ±ol", Flag: "ðŸ‡ªðŸ‡¸"},
	"es-AR": {Name: "EspaÃ±ol (Argentina)", Flag: "ðŸ‡¦ðŸ‡·"},
	"es-MX": {Name: "EspaÃ±ol (MÃ©xico)", Flag: "ðŸ‡²ðŸ‡½"},
	"et":    {Name: "Eesti", Flag: "ðŸ‡ªðŸ‡ª"},
	"eu":    {Name: "Euskara", Flag: "ðŸ‡ªðŸ‡¸"},
	"fa":    {Name: "ÙØ§Ø±Ø³ÛŒ", Flag: "ðŸ‡®ðŸ‡·"},
	"fi":    {Name: "Suomi", Flag: "ðŸ‡«ðŸ‡®"},
	"fr":    {Name: "FranÃ§ais", Flag: "ðŸ‡«ðŸ‡·"},
	"fr-BE": {Name: "FranÃ§ais (Belgique)", Flag: "ðŸ‡§ðŸ‡ª"},
	"fr-CA": {Name: "FranÃ§ais (Canada)", Flag: "ðŸ‡¨ðŸ‡¦"},
	"fr-CH": {Name: "FranÃ§ais (Suisse)", Flag: "ðŸ‡¨ðŸ‡­"},
	"ga":    {Name: "Gaeilge", Flag: "ðŸ‡®ðŸ‡ª"},
	"gl":    {Name: "Galego", Flag: "ðŸ‡ªðŸ‡¸"},
	"gu":    {Name: "àª—à«àªœàª°àª¾àª¤à«€", Flag: "ðŸ‡®ðŸ‡³"},
	"he":    {Name: "×¢×‘×¨×™×ª", Flag: "ðŸ‡®ðŸ‡±"},
	"hi":    {Name: "à¤¹à¤¿à¤¨à¥à¤¦à¥€", Flag: "ðŸ‡®ðŸ‡³"},
	"hr":    {Name: "Hrvatski", Flag: "ðŸ‡­ðŸ‡·"},
	"hu":    {Name: "Magyar", Flag: "ðŸ‡­ðŸ‡º"},
	"hy":    {Name: "Õ€Õ¡ÕµÕ¥Ö€Õ¥Õ¶", Flag: "ðŸ‡¦ðŸ‡²"},
	"id":    {Name: "Bahasa Indonesia", Flag: "ðŸ‡®ðŸ‡©"},
	"is":    {Name: "Ãslenska", Flag: "ðŸ‡®ðŸ‡¸"},
	"it":    {Name: "Italiano", Flag: "ðŸ‡®ðŸ‡¹"},
	"ja":    {Name: "æ—¥æœ¬èªž", Flag: "ðŸ‡¯ðŸ‡µ"},
	"ka":    {Name: "áƒ¥áƒáƒ áƒ—áƒ£áƒšáƒ˜", Flag: "ðŸ‡¬ðŸ‡ª"},
	"kk":    {Name: "ÒšÐ°Ð·Ð°Ò› Ñ‚Ñ–Ð»Ñ–", Flag: "ðŸ‡°ðŸ‡¿"},
	"km":    {Name: "ážáŸ’áž˜áŸ‚ážš", Flag: "ðŸ‡°ðŸ‡­"},
	"ko":    {Name: "í•œêµ­ì–´", Flag: "ðŸ‡°ðŸ‡·"},
	"lo":    {Name: "àº¥àº²àº§", Flag: "ðŸ‡±ðŸ‡¦"},
	"lt":    {Name: "LietuviÅ³", Flag: "ðŸ‡±ðŸ‡¹"},
	"lv":    {Name: "LatvieÅ¡u", Flag: "ðŸ‡±ðŸ‡»"},
	"mk":    {Name: "ÐœÐ°ÐºÐµÐ´Ð¾Ð½ÑÐºÐ¸", Flag: "ðŸ‡²ðŸ‡°"},
	"ml":    {Name: "à´®à´²à´¯à´¾à´³à´‚", Flag: "ðŸ‡®ðŸ‡³"},
	"mn":    {Name: "ÐœÐ¾Ð½Ð³Ð¾Ð»", Flag: "ðŸ‡²ðŸ‡³"},
	"mr":    {Name: "à¤®à¤°à¤¾à¤ à¥€", Flag: "ðŸ‡®ðŸ‡³"},
	"ms":    {Name: "Bahasa Melayu", Flag: "ðŸ‡²ðŸ‡¾"},
	"mt":    {Name: "Malti", Flag: "ðŸ‡²ðŸ‡¹"},
	"my":    {Name: "á€™á€¼á€”á€ºá€™á€¬", Flag: "ðŸ‡²ðŸ‡²"},
	"ne":    {Name: "à¤¨à¥‡à¤ªà¤¾à¤²à¥€", Flag: "ðŸ‡³ðŸ‡µ"},
	"nl":    {Name: "Nederlands", Flag: "ðŸ‡³ðŸ‡±"},
	"nl-BE": {Name: "Nederlands (BelgiÃ«)", Flag: "ðŸ‡§ðŸ‡ª"},
	"nb":    {Name: "Norsk bokmÃ¥l", Flag: "ðŸ‡³ðŸ‡´"},
	"nn":    {Name: "Norsk nynorsk", Flag: "ðŸ‡³ðŸ‡´"},
	"no":    {Name: "Norsk", Flag: "ðŸ‡³ðŸ‡´"},
	"pa":    {Name: "à¨ªà©°à¨œà¨¾à¨¬à©€", Flag: "ðŸ‡®ðŸ‡³"},
	"pl":    {Name: "Polski", Flag: "ðŸ‡µðŸ‡±"},
	"ps":    {Name: "Ù¾ÚšØªÙˆ", Flag: "ðŸ‡¦ðŸ‡«"},
	"pt":    {Name: "PortuguÃªs", Flag: "ðŸ‡µðŸ‡¹"},
	"pt-BR": {Name: "PortuguÃªs (Brasil)", Flag: "ðŸ‡§ðŸ‡·"},
	"pt-PT": {Name: "PortuguÃªs (Portugal)", Flag: "ðŸ‡µðŸ‡¹"},
	"ro":    {Name: "RomÃ¢nÄƒ", Flag: "ðŸ‡·ðŸ‡´"},
	"ru":    {Name: "Ð ÑƒÑÑÐºÐ¸Ð¹", Flag: "ðŸ‡·ðŸ‡º"},
	"si":    {Name: "à·ƒà·’à¶‚à·„à¶½", Flag: "ðŸ‡±ðŸ‡°"},
	"sk":    {Name: "SlovenÄina", Flag: "ðŸ‡¸ðŸ‡°"},
	"sl":    {Name: "SlovenÅ¡Äina", Flag: "ðŸ‡¸ðŸ‡®"},
	"sq":    {Name: "Shqip", Flag: "ðŸ‡¦ðŸ‡±"},
	"sr":    {Name: "Ð¡Ñ€Ð¿ÑÐºÐ¸", Flag: "ðŸ‡·ðŸ‡¸"},
	"sv":    {Name: "Svenska", Flag: "ðŸ‡¸ðŸ‡ª"},
	"sw":    {Name: "Kiswahili", Flag: "ðŸ‡¹ðŸ‡¿"},
	"ta":    {Name: "à®¤à®®à®¿à®´à¯", Flag: "ðŸ‡®ðŸ‡³"},
	"te":    {Name: "à°¤à±†à°²à±à°—à±", Flag: "ðŸ‡®ðŸ‡³"},
	"th":    {Name: "à¹„à¸—à¸¢", Flag: "ðŸ‡¹ðŸ‡­"},
	"tr":    {Name: "TÃ¼rkÃ§e", Flag: "ðŸ‡¹ðŸ‡·"},
	"uk":    {Name: "Ð£ÐºÑ€Ð°Ñ—Ð½ÑÑŒÐºÐ°", Flag: "ðŸ‡ºðŸ‡¦"},
	"ur":    {Name: "Ø§Ø±Ø¯Ùˆ", Flag: "ðŸ‡µðŸ‡°"},
	"uz":    {Name: "O'zbek", Flag: "ðŸ‡ºðŸ‡¿"},
	"vi":    {Name: "Tiáº¿ng Viá»‡t", Flag: "ðŸ‡»ðŸ‡³"},
	"xh":    {Name: "isiXhosa", Flag: "ðŸ‡¿ðŸ‡¦"},
	"yo":    {Name: "YorÃ¹bÃ¡", Flag: "ðŸ‡³ðŸ‡¬"},
	"zh":    {Name: "ä¸­æ–‡", Flag: "ðŸ‡¨ðŸ‡³"},
	"zh-CN": {Name: "ç®€ä½“ä¸­æ–‡", Flag: "ðŸ‡¨ðŸ‡³"},
	"zh-TW": {Name: "ç¹é«”ä¸­æ–‡", Flag: "ðŸ‡¹ðŸ‡¼"},
	"zu":    {Name: "isiZulu", Flag: "ðŸ‡¿ðŸ‡¦"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR, pt-BR, and locale fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Flag: ""}
}
