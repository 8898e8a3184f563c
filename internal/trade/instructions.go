package trade

import "fmt"

// instructionLines renders one execution instruction line per order-typed
// fixed leg, in display order. C2R legs are included unless policy says
// otherwise. Instructions on averaging legs are ignored.
func (r *Resolver) instructionLines(outs []resolvedLeg) []string {
	var lines []string
	for _, o := range outs {
		if o.leg.Instruction == nil || !o.leg.Type.fixed() {
			continue
		}
		if o.leg.Type == TypeC2R && !r.policy.InstructionsForC2R {
			continue
		}
		if line := instructionLine(o.leg.Side, o.leg.Instruction); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func instructionLine(side Side, inst *Instruction) string {
	validity := inst.Validity
	if validity == "" {
		validity = "Day"
	}
	switch inst.Order {
	case OrderLimit:
		if inst.LimitPrice != "" {
			return fmt.Sprintf("Execution Instruction: %s leg limit order at USD %s, valid %s.", side, inst.LimitPrice, validity)
		}
		return fmt.Sprintf("Execution Instruction: %s leg limit order, valid %s.", side, validity)
	case OrderRange:
		return fmt.Sprintf("Execution Instruction: %s leg range order USD %s to %s, valid %s.", side, inst.RangeFrom, inst.RangeTo, validity)
	case OrderResting:
		return fmt.Sprintf("Execution Instruction: %s leg resting order, best bid/offer in book, valid %s.", side, validity)
	case OrderAtMarket:
		return fmt.Sprintf("Execution Instruction: %s leg at market, valid %s.", side, validity)
	}
	return ""
}
