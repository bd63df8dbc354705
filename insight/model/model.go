// Package model defines the read-only data contracts consumed by the
// insight engine: daily records, the user profile, and the product index.
// All inputs are supplied by the caller (persistence layer) and are never
// mutated by the engine.
package model

// MealItem references a product by id with the consumed amount in grams.
type MealItem struct {
	ProductID string  `json:"productId"`
	Grams     float64 `json:"grams"`
}

// Meal is a single eating occasion within a day.
type Meal struct {
	// Time is the wall-clock time of the meal ("HH:MM").
	Time  string     `json:"time"`
	Mood  float64    `json:"mood,omitempty"` // 0-10, 0 = not recorded
	Items []MealItem `json:"items"`
}

// Training is one training session within a day.
type Training struct {
	Type        string    `json:"type,omitempty"` // strength, cardio, hobby
	DurationMin float64   `json:"durationMin,omitempty"`
	Intensity   string    `json:"intensity,omitempty"`
	Hour        int       `json:"hour,omitempty"`
	// ZoneMinutes holds minutes per heart-rate zone (z1..z5).
	ZoneMinutes []float64 `json:"zoneMinutes,omitempty"`
	SweatRateML float64   `json:"sweatRateMl,omitempty"` // ml per hour
}

// DayRecord is one day of logged data. Zero values mean "not recorded";
// analyzers must not treat them as measured zeros.
type DayRecord struct {
	Date string `json:"date"` // "YYYY-MM-DD"

	Meals []Meal `json:"meals,omitempty"`

	SleepHours   float64 `json:"sleepHours,omitempty"`
	SleepStart   string  `json:"sleepStart,omitempty"` // "23:00"
	SleepEnd     string  `json:"sleepEnd,omitempty"`   // "07:30"
	SleepQuality float64 `json:"sleepQuality,omitempty"`

	Steps        float64    `json:"steps,omitempty"`
	HouseholdMin float64    `json:"householdMin,omitempty"`
	Trainings    []Training `json:"trainings,omitempty"`

	StressAvg    float64 `json:"stressAvg,omitempty"`    // 0-10
	Energy       float64 `json:"energy,omitempty"`       // 0-5
	Mood         float64 `json:"mood,omitempty"`         // 0-10
	WellbeingAvg float64 `json:"wellbeingAvg,omitempty"` // 0-10

	WeightMorning float64 `json:"weightMorning,omitempty"`
	WeightEvening float64 `json:"weightEvening,omitempty"`

	// Measurements holds tape measurements in cm, keyed by site
	// (e.g. "waist", "hip").
	Measurements map[string]float64 `json:"measurements,omitempty"`

	// WaterML is the day's logged water intake in milliliters.
	WaterML float64 `json:"waterMl,omitempty"`

	CycleDay int  `json:"cycleDay,omitempty"`
	Refeed   bool `json:"refeed,omitempty"`

	// EatenKcal is an optional precomputed calorie total for the day.
	// When zero the engine derives it from meals and the product index.
	EatenKcal float64 `json:"eatenKcal,omitempty"`

	// DayScore is an optional externally computed 0-100 status score.
	DayScore float64 `json:"dayScore,omitempty"`
}

// Profile carries the user's anthropometrics and targets.
type Profile struct {
	Age      int     `json:"age,omitempty"`
	Gender   string  `json:"gender,omitempty"` // "male" or "female"
	HeightCM float64 `json:"heightCm,omitempty"`
	WeightKG float64 `json:"weightKg,omitempty"`

	WeightGoal       float64 `json:"weightGoal,omitempty"`
	DeficitPctTarget float64 `json:"deficitPctTarget,omitempty"` // negative = deficit
	SleepHoursTarget float64 `json:"sleepHoursTarget,omitempty"`
	OptimumKcal      float64 `json:"optimumKcal,omitempty"`
	InsulinWaveHours float64 `json:"insulinWaveHours,omitempty"`
	TrainingHour     int     `json:"trainingHour,omitempty"`

	CycleTrackingEnabled bool `json:"cycleTrackingEnabled,omitempty"`

	// Phenotype tags, e.g. metabolic: "insulin_resistant", satiety: "low_satiety".
	Phenotype map[string]string `json:"phenotype,omitempty"`
}

// IsFemale reports whether gendered reference intakes should use female values.
func (p *Profile) IsFemale() bool {
	return p != nil && p.Gender == "female"
}

// SleepTarget returns the configured sleep target, defaulting to 8 hours.
func (p *Profile) SleepTarget() float64 {
	if p != nil && p.SleepHoursTarget > 0 {
		return p.SleepHoursTarget
	}
	return 8
}

// Optimum returns the daily calorie target, defaulting to 2000 kcal.
func (p *Profile) Optimum() float64 {
	if p != nil && p.OptimumKcal > 0 {
		return p.OptimumKcal
	}
	return 2000
}

// Weight returns the profile weight, defaulting to 70 kg when unset.
func (p *Profile) Weight() float64 {
	if p != nil && p.WeightKG > 0 {
		return p.WeightKG
	}
	return 70
}
