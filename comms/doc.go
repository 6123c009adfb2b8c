// Package comms implements the asynchronous messaging substrate the agents
// coordinate through: named point-to-point delivery of performative-tagged
// messages with JSON payloads, correlation ids for request/response matching
// and bounded receives.
//
// Three concerns live here:
//
//  1. Message – the immutable envelope (id, performative, sender, correlation
//     id, raw JSON body) plus typed encode/decode helpers
//  2. Exchange – the registry of named mailboxes; Send is asynchronous and
//     best effort, a full or unknown mailbox drops the message
//  3. Mailbox – a buffered inbox combined with a pending-request table; a
//     response whose correlation id matches an outstanding Request resolves
//     the waiting caller directly and never enters the general inbox
//
// Agents never share memory: every cross-agent interaction flows through an
// Exchange. All receives accept a context so cooperative cancellation can
// interrupt any pending wait.
package comms
