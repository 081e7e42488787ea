/*
	Project: Notas - grade book for a school: classes ("turmas"), students ("alunos") and their grades ("notas").

	apps/api   - HTTP API (echo), wired with dig
	apps/admin - CLI: professor accounts & postgres migrations
	core       - domain services, one package per concern
	storage    - redis (default), postgres & in-memory gateways
	services   - email, logging & report export
*/
package notas
