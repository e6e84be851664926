package profile

// trackedInputs are the inputs whose presence narrows the prediction
// confidence interval. The list is fixed so completeness is comparable
// across profiles.
var trackedInputs = []func(*Profile) bool{
	func(p *Profile) bool { return p.Lifestyle.DietScore != nil },
	func(p *Profile) bool { return p.Lifestyle.ActivityMinutes != nil },
	func(p *Profile) bool { return p.Lifestyle.SleepHours != nil },
	func(p *Profile) bool { return p.Lifestyle.StressScore != nil },
	func(p *Profile) bool { return p.Lifestyle.Smoking != "" },
	func(p *Profile) bool { return p.Lifestyle.Alcohol != "" },
	func(p *Profile) bool { return len(p.Genetics) > 0 },
	func(p *Profile) bool { return len(p.Impedance) > 0 },
	hasMetric(MetricSystolicBP),
	hasMetric(MetricRestingHeartRate),
	hasMetric(MetricTotalCholesterol),
	hasMetric(MetricHDLCholesterol),
	hasMetric(MetricFastingGlucose),
	hasMetric(MetricHbA1c),
	hasMetric(MetricBMI),
	hasMetric(MetricVO2Max),
}

func hasMetric(name string) func(*Profile) bool {
	return func(p *Profile) bool {
		_, ok := p.Metric(name)
		return ok
	}
}

// Completeness reports the populated fraction of the tracked inputs in
// [0,1]. Populating any tracked input never lowers the value.
func (p *Profile) Completeness() float64 {
	populated := 0
	for _, present := range trackedInputs {
		if present(p) {
			populated++
		}
	}
	return float64(populated) / float64(len(trackedInputs))
}
