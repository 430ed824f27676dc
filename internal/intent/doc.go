// Package intent recognizes price constraints in free-text queries.
//
// Four pattern families are tried in a fixed order and the first match
// wins:
//
//	between  "between $50 and $100", "from 50 to 100", "$50-$100"
//	under    "under $20", "less than 20", "at most 20", "<20"
//	over     "over $1,000", "at least 100", ">100"
//	near     "$50", "50 dollars", "around 50" (with price vocabulary)
//
// Reversed between bounds are swapped and a near amount X becomes the
// window [X(1-t), X(1+t)]. Digits embedded in words such as "ak-47" or
// "p250" are never read as amounts. A capture that does not convert to a
// finite number is logged and treated as no intent.
package intent
