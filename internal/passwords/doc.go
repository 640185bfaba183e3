// Package passwords hashes and checks passwords with bcrypt or argon2id.
//
// Argon2id hashes use the PHC string layout
// ($argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt>$<hash>) so they
// interoperate with other argon2 tooling.
package passwords
