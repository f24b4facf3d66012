// Package advisory turns a predicted AQI class into bilingual health guidance.
package advisory

import "github.com/breathify/backend/internal/domain"

const (
	HumidityThreshold    = 70.0
	TemperatureThreshold = 35.0
)

type entry struct {
	color   string
	english string
	urdu    string
}

var table = map[domain.Category]entry{
	domain.CategoryGood: {
		color:   "#a8e6cf",
		english: "✅ Air quality is clean and safe for everyone.",
		urdu:    "ہوا صاف اور محفوظ ہے۔ باہر کھل کر گھومیں۔",
	},
	domain.CategoryFair: {
		color:   "#dcedc1",
		english: "🙂 Acceptable air quality, but sensitive groups should limit outdoor activity.",
		urdu:    "ہوا معتدل ہے۔ حساس افراد جیسے بچے، بوڑھے اور دمے کے مریض احتیاط کریں۔",
	},
	domain.CategoryModerate: {
		color:   "#ffd3b6",
		english: "⚠️ Moderate pollution — some people may feel mild discomfort. Wear a mask outdoors.",
		urdu:    "ہوا میں آلودگی معتدل ہے۔ دمے یا دل کے مریض ماسک پہنیں۔",
	},
	domain.CategoryPoor: {
		color:   "#ffaaa5",
		english: "🚫 Unhealthy air. Avoid prolonged outdoor exposure. Use mask and keep kids indoors.",
		urdu:    "ہوا آلودہ ہے۔ بچوں اور بوڑھوں کو گھر پر رکھیں اور ماسک لازمی پہنیں۔",
	},
	domain.CategoryVeryPoor: {
		color:   "#ff8b94",
		english: "❗ Extremely unhealthy air. Avoid outdoor exposure completely.",
		urdu:    "انتہائی آلودہ ہوا ہے۔ باہر جانے سے مکمل طور پر گریز کریں۔",
	},
}

// Clauses appended when the weather makes the pollution harder to bear
const (
	HumidityClauseEnglish = " 💧 High humidity can worsen breathing — ensure ventilation."
	HumidityClauseUrdu    = " زیادہ نمی سانس لینے میں دشواری پیدا کر سکتی ہے۔"

	HeatClauseEnglish = " 🌡️ High temperature — stay hydrated."
	HeatClauseUrdu    = " زیادہ درجہ حرارت میں پانی زیادہ پیئیں۔"
)

// Advise builds the advisory for a predicted class. Humidity above 70 and
// temperature above 35 each append a warning, humidity first. A nil reading
// skips its warning.
func Advise(prediction int, temperature, humidity *float64) domain.Advisory {
	category := domain.CategoryFromPrediction(prediction)
	row := table[category]

	a := domain.Advisory{
		Category: category,
		Color:    row.color,
		English:  row.english,
		Urdu:     row.urdu,
	}

	if humidity != nil && *humidity > HumidityThreshold {
		a.English += HumidityClauseEnglish
		a.Urdu += HumidityClauseUrdu
	}
	if temperature != nil && *temperature > TemperatureThreshold {
		a.English += HeatClauseEnglish
		a.Urdu += HeatClauseUrdu
	}

	return a
}
