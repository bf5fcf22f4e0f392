// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package websocket pushes live station state to operator dashboards.

Hub is a hub-and-spoke broadcaster over gorilla/websocket. Each Client runs
a readPump (pings in) and a writePump (messages and keepalives out). Slow
clients are dropped, never waited for.

Message Types:

	scan_ack      {"raised": bool}           a code is in view
	scan_result   models.ScanResult           outcome of a scan
	attendance    models.AttendanceStats      roster counts after a refresh
	notification  {"notification", "unread"}  portal notification pushed live
	toast         models.Toast                operator notification
	session       models.SessionStatus        session opened or closed
	pong          null                        reply to a client "ping"

Hub implements scan.Publisher, attendance.Publisher and
notify.ToastBroadcaster.
*/
package websocket
