// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package delivery

import (
	"github.com/spf13/viper"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const summaryKey = "Retrieved %d messages."

var (
	summaryLanguages = []language.Tag{language.Czech, language.English}
	summaryMatcher   = language.NewMatcher(summaryLanguages)
	summaryCatalog   = newSummaryCatalog()
)

func init() {
	viper.SetDefault("output.language", "cs")
}

func newSummaryCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.Czech))

	mustSet(builder, language.Czech, plural.Selectf(1, "%d",
		plural.One, "Stažena %d zpráva.",
		plural.Few, "Staženy %d zprávy.",
		plural.Other, "Staženo %d zpráv.",
	))

	mustSet(builder, language.English, plural.Selectf(1, "%d",
		plural.One, "Retrieved %d message.",
		plural.Other, summaryKey,
	))

	return builder
}

func mustSet(builder *catalog.Builder, tag language.Tag, msg catalog.Message) {
	if err := builder.Set(tag, summaryKey, msg); err != nil {
		panic(err)
	}
}

// Summary returns the sentence reporting n retrieved messages in the language lang. Unknown
// languages fall back to czech.
func Summary(lang string, n int) string {
	_, index, _ := summaryMatcher.Match(language.Make(lang))

	printer := message.NewPrinter(summaryLanguages[index], message.Catalog(summaryCatalog))
	return printer.Sprintf(summaryKey, n)
}
