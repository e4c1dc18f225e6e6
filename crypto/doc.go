// Package crypto contains the cryptographic building blocks of zkgroup:
//   - hash arbitrary data (`Digest`) using sha3 (shake256)
//   - generate a random seed (`MakeRand`)
//   - Ristretto255 arithmetic and hashing to the group (package group)
//   - a stateful hash object used as KDF and transcript (package sho)
//   - proofs of knowledge of linear relations (package poksho)
//   - Schnorr signatures (package sign)
//   - HKDF key derivation for symmetric keys (package kdf).
package crypto
