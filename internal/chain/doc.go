// Package chain implements the frame integrity log.
//
// Each rendered frame appends one ir.Record whose Hash covers its category,
// length, timestamp and the previous record's Hash:
//
//	Record[0] -> Record[1] -> Record[2] -> ... -> Record[N]
//	  prev=0000000000000000
//	            prev=Hash0     prev=Hash1            prev=HashN-1
//
// Append is the only mutation. There is no update or delete, and indices are
// assigned densely from zero. The chain carries link integrity only; nothing
// is signed or distributed.
package chain
