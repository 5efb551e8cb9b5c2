package constraints

// Check verifies lower <= value <= upper. NaN never passes.
func Check(value float64, c ConstraintsSchema, name string) error {
	if value >= c.Lower && value <= c.Upper {
		return nil
	}
	return NewOutOfBounds(name)
}

// CheckOptional skips absent values.
func CheckOptional(value *float64, c ConstraintsSchema, name string) error {
	if value == nil {
		return nil
	}
	return Check(*value, c, name)
}

// CheckCFParameters validates a parameter set against its model schema and
// reports the first violation in schema order.
func CheckCFParameters(p CFParameters) error {
	schema := ModelConstraints(p.Model())
	for i, v := range p.ToVector() {
		if err := Check(v.Value, schema[i].Schema, v.Name); err != nil {
			return err
		}
	}
	return nil
}

// CheckOptionParameters validates the request envelope. Model parameters are
// validated by the dispatcher, strikes by the operation that needs them.
func CheckOptionParameters(p *OptionParameters, c ParameterConstraints) error {
	if err := CheckOptional(p.Asset, c.Asset, "asset"); err != nil {
		return err
	}
	if err := Check(p.Maturity, c.Maturity, "maturity"); err != nil {
		return err
	}
	if err := Check(p.Rate, c.Rate, "rate"); err != nil {
		return err
	}
	if err := Check(float64(p.NumU), c.NumU, "num_u"); err != nil {
		return err
	}
	return CheckOptional(p.Quantile, c.Quantile, "quantile")
}

// CheckStrikes requires a non-empty list of positive strikes.
func CheckStrikes(strikes []float64) error {
	if len(strikes) == 0 {
		return NewNoExist("strikes")
	}
	for _, k := range strikes {
		if !(k > 0) {
			return NewOutOfBounds("strikes")
		}
	}
	return nil
}

func CheckCalibrationParameters(p *CalibrationParameters, c ParameterConstraints) error {
	if err := Check(p.Asset, c.Asset, "asset"); err != nil {
		return err
	}
	if err := Check(p.Rate, c.Rate, "rate"); err != nil {
		return err
	}
	if err := Check(float64(p.NumU), c.NumU, "num_u"); err != nil {
		return err
	}
	if len(p.OptionData) == 0 {
		return NewNoExist("option_data")
	}
	for _, md := range p.OptionData {
		if err := Check(md.Maturity, c.Maturity, "maturity"); err != nil {
			return err
		}
		if len(md.OptionData) == 0 {
			return NewNoExist("option_data")
		}
		for _, q := range md.OptionData {
			if !(q.Strike > 0) {
				return NewOutOfBounds("strike")
			}
		}
	}
	return nil
}
