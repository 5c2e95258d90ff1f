// Package domain contains the core business entities of the task board:
// users, boards, tasks and comments, their validation rules, the typed patch
// structures used for partial updates, and the read models returned to
// clients. It has no knowledge of storage or transport.
package domain
