/*
Package schema creates backing tables for registered entity metadata.

The connection runs a Creator during Connect when the driver options
request automatic schema creation. Creation is additive only: existing
tables are never altered or dropped.
*/
package schema
