// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package chatbot

import (
	"regexp"
	"strings"
)

type intentPatterns struct {
	intent   Intent
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// intentTable is scanned in order; earlier buckets win ties.
var intentTable = []intentPatterns{
	{IntentMenuRecommendation, compile(
		`\b(recommend|recommendation|suggest|suggestion)s?\b`,
		`\bwhat should i (eat|order|get|try)\b`,
		`\b(hungry|craving)\b`,
		`\b(best|good|popular|favorite) (dish|dishes|food|item|items|meal)\b`,
		`\bmenu\b`,
	)},
	{IntentOrderInquiry, compile(
		`\border\b`,
		`\bmy (last |recent )?orders?\b`,
		`\b(status|track|tracking)\b`,
		`\bwhere is my\b`,
	)},
	{IntentRestaurantInfo, compile(
		`\b(hours|open|opening|close|closing)\b`,
		`\b(address|location|located|directions)\b`,
		`\b(phone|contact|call you)\b`,
		`\bparking\b`,
	)},
	{IntentReservation, compile(
		`\b(reserve|reservation|reservations)\b`,
		`\b(book|booking)\b`,
		`\btable for\b`,
		`\bparty of\b`,
	)},
	{IntentPricingQuestion, compile(
		`\b(price|prices|pricing)\b`,
		`\bhow much\b`,
		`\b(cost|costs)\b`,
		`\b(cheap|expensive|deal|deals|discount)\b`,
	)},
	{IntentAnalyticsRequest, compile(
		`\b(analytics|forecast|prediction|predict)\b`,
		`\b(revenue|sales)\b`,
		`\b(staff|staffing)\b`,
		`\b(churn|segment|segments)\b`,
		`\bdemand\b`,
	)},
	{IntentComplaintFeedback, compile(
		`\b(complain|complaint)\b`,
		`\b(bad|terrible|awful|rude|cold|wrong)\b`,
		`\bfeedback\b`,
		`\b(disappointed|unhappy)\b`,
	)},
	{IntentGreeting, compile(
		`^\s*(hi|hello|hey|howdy)\b`,
		`\bgood (morning|afternoon|evening)\b`,
		`\b(thanks|thank you)\b`,
	)},
	{IntentHelp, compile(
		`\bhelp\b`,
		`\bwhat can you do\b`,
		`\b(options|commands)\b`,
	)},
}

// Classify votes each intent bucket by the fraction of its patterns that
// match. The highest fraction wins, ties go to the earlier bucket, and a
// message matching nothing is IntentGeneral.
func Classify(text string) Classification {
	lower := strings.ToLower(text)
	best := Classification{Intent: IntentGeneral}
	for _, bucket := range intentTable {
		matched := 0
		for _, re := range bucket.patterns {
			if re.MatchString(lower) {
				matched++
			}
		}
		score := float64(matched) / float64(len(bucket.patterns))
		if score > best.Score {
			best = Classification{Intent: bucket.intent, Score: score}
		}
	}
	return best
}
